package commands

import (
	"fmt"
	"io"

	"footerCheck/internal/cli/ui"
	"footerCheck/internal/pages"
)

// PagesHandler показывает страницы и наборы элементов, которые будут проверены.
type PagesHandler struct {
	catalog *pages.Catalog
	out     io.Writer
}

func NewPagesHandler(catalog *pages.Catalog, out io.Writer) *PagesHandler {
	return &PagesHandler{catalog: catalog, out: out}
}

func (h *PagesHandler) List() {
	ui.Header(h.out, ui.IconList+" Страницы (%d)", len(h.catalog.Pages))
	for _, url := range h.catalog.Pages {
		set := "полный набор"
		if h.catalog.IsSpecial(url) {
			set = "сокращенный набор"
		}
		elements := h.catalog.ElementsFor(url)
		fmt.Fprintf(h.out, ui.ColorCyan+"%s"+ui.ColorReset+"  "+ui.ColorGray+"%s, %d"+ui.ColorReset+"\n", url, set, len(elements))
		for _, loc := range elements {
			fmt.Fprintf(h.out, "    %s "+ui.ColorGray+"%s"+ui.ColorReset+"\n", loc.Name, loc.Selector())
		}
	}
	fmt.Fprintln(h.out)
}
