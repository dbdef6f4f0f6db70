package ui

import (
	"fmt"
	"io"
)

// PrintBanner выводит заголовок перед прогоном.
func PrintBanner(w io.Writer, browser, osLabel string, workers, pages int) {
	fmt.Fprintln(w, ColorBold+IconGlobe+" footercheck"+ColorReset)
	fmt.Fprintln(w, ColorGray+"Проверка футера only.digital в нескольких браузерах"+ColorReset)
	fmt.Fprintf(w, ColorCyan+"Браузер:"+ColorReset+" %s  "+ColorCyan+"ОС:"+ColorReset+" %s  "+
		ColorCyan+"Воркеры:"+ColorReset+" %d  "+ColorCyan+"Страниц:"+ColorReset+" %d\n\n",
		browser, osLabel, workers, pages)
}
