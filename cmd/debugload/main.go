package main

import (
	"flag"
	"fmt"

	"github.com/lawnchairsociety/overworld/internal/catalog"
)

func main() {
	catalogFile := flag.String("catalog", "", "Path to building template YAML file (empty for built-in)")
	showLayouts := flag.Bool("layouts", false, "Print each template's layout")
	flag.Parse()

	var cat *catalog.Catalog
	var err error
	if *catalogFile == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.Load(*catalogFile)
	}
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("Loaded %d templates\n", cat.Len())

	// List templates by archetype
	for _, a := range catalog.AllArchetypes() {
		templates := cat.Templates(a)
		if len(templates) == 0 {
			fmt.Printf("\n%s: NO TEMPLATES\n", a)
			continue
		}
		fmt.Printf("\n%s:\n", a)
		for _, t := range templates {
			fmt.Printf("  - %s (%s, %dx%d) required: %v optional: %v\n",
				t.Name, t.Size, t.Width(), t.Height(), t.Required, t.Optional)
			if *showLayouts {
				for _, row := range t.Layout() {
					fmt.Printf("      %s\n", row)
				}
			}
		}
	}
}
