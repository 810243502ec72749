package cpu

// Memory is the sparse word store of a Computer.
// Addresses are non-negative; a never-written address reads as zero.
type Memory struct {
	cells map[int64]int64
}

// NewMemory creates a memory holding the program words at addresses 0..N-1.
func NewMemory(program []int64) (mem *Memory) {
	mem = &Memory{
		cells: make(map[int64]int64, len(program)),
	}

	for addr, word := range program {
		mem.cells[int64(addr)] = word
	}

	return
}

// Read returns the word at addr, or 0 if it was never written.
func (mem *Memory) Read(addr int64) (value int64, err error) {
	if addr < 0 {
		err = ErrAddress(addr)
		return
	}

	value = mem.cells[addr]
	return
}

// Write stores a word at addr, creating the slot if needed.
func (mem *Memory) Write(addr int64, value int64) (err error) {
	if addr < 0 {
		err = ErrAddress(addr)
		return
	}

	if mem.cells == nil {
		mem.cells = make(map[int64]int64)
	}
	mem.cells[addr] = value

	return
}

// Len returns the number of materialised slots.
func (mem *Memory) Len() int {
	return len(mem.cells)
}

// Words returns a copy of the words at addresses 0..count-1.
func (mem *Memory) Words(count int) (words []int64) {
	words = make([]int64, count)
	for n := range words {
		words[n] = mem.cells[int64(n)]
	}
	return
}
