package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/ikkim/storefront/internal/fakestore"
)

func main() {
	template := flag.Bool("template", false, "write the built-in catalog instead of reading one")
	out := flag.String("out", "", "where to write the cleaned catalog")
	yes := flag.Bool("yes", false, "do not ask before writing")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: seed [-out cleaned.xlsx] [-yes] <catalog.xlsx>")
		fmt.Fprintln(os.Stderr, "       seed -template -out catalog.xlsx")
		flag.PrintDefaults()
	}
	flag.Parse()

	var products []fakestore.Product
	if *template {
		products = fakestore.DefaultCatalog()
	} else {
		if flag.NArg() < 1 {
			flag.Usage()
			os.Exit(2)
		}
		path := flag.Arg(0)

		fmt.Printf("Reading XLSX file: %s\n", path)
		loaded, err := fakestore.LoadProductsXLSX(path)
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}

		var problems []string
		products, problems = fakestore.CleanCatalog(loaded)
		for _, p := range problems {
			fmt.Printf("  skipped %s\n", p)
		}
	}

	printSummary(products)

	if *out == "" {
		return
	}
	if !*yes && !confirm(fmt.Sprintf("Write %d products to %s?", len(products), *out)) {
		fmt.Println("Write cancelled.")
		return
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal("Failed to create output file:", err)
	}
	if err := fakestore.WriteProductsXLSX(f, products); err != nil {
		f.Close()
		log.Fatal("Failed to write catalog:", err)
	}
	if err := f.Close(); err != nil {
		log.Fatal("Failed to close output file:", err)
	}
	fmt.Printf("Catalog written: %s\n", *out)
}

func printSummary(products []fakestore.Product) {
	perCategory := make(map[string]int)
	inactive, outOfStock := 0, 0
	for _, p := range products {
		perCategory[p.Category]++
		if !p.Active {
			inactive++
		}
		if p.Stock == 0 {
			outOfStock++
		}
	}

	categories := make([]string, 0, len(perCategory))
	for c := range perCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	fmt.Printf("Total products: %d (inactive: %d, out of stock: %d)\n", len(products), inactive, outOfStock)
	for _, c := range categories {
		name := c
		if name == "" {
			name = "(none)"
		}
		fmt.Printf("  %-12s %d\n", name, perCategory[c])
	}
}

func confirm(question string) bool {
	fmt.Printf("%s (yes/no): ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}
