// Package translate formats user-visible intcode messages for the
// current locale.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// fallback is used when the host reports no usable locale.
var fallback = language.AmericanEnglish

func load() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("intcode: locale: %v", err)
	}

	tag := fallback
	if len(locales) != 0 {
		tag = message.MatchLanguage(locales...)
	}

	printer = message.NewPrinter(tag)
}

// Printer returns the message printer for the host locale.
func Printer() *message.Printer {
	printerOnce.Do(load)
	return printer
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return Printer().Sprintf(key, args...)
}
