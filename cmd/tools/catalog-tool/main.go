// cmd/tools/catalog-tool/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"matching-workers/pkg/catalog"
)

var catalogPath string

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update-scheme", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{validateCmd, listCmd, updateCmd} {
		fs.StringVar(&catalogPath, "path", "configs/catalog.json", "Path to catalog file")
	}

	kind := listCmd.String("kind", "all", "What to list (contractors, schemes, locations, all)")

	idUpdate := updateCmd.String("id", "", "Scheme ID to update")
	field := updateCmd.String("field", "", "Field to update (remainingBudget, deadline, maxAmount)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		c, err := catalog.LoadCatalog(catalogPath)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		if err := c.Validate(); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog validation passed: %d contractors, %d schemes, %d locations.\n",
			len(c.Contractors), len(c.Schemes), len(c.Locations))

	case "list":
		listCmd.Parse(os.Args[2:])
		c, err := catalog.LoadCatalog(catalogPath)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		if err := list(c, *kind); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

	case "update-scheme":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update-scheme.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateScheme(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating scheme: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated scheme %s, field %s to %s\n", *idUpdate, *field, *value)

	case "help":
		fallthrough
	default:
		help()
	}
}

func list(c *catalog.Catalog, kind string) error {
	switch kind {
	case "contractors", "schemes", "locations", "all":
	default:
		return fmt.Errorf("unknown kind: %s", kind)
	}

	if kind == "contractors" || kind == "all" {
		fmt.Println("Contractors:")
		for _, ct := range c.Contractors {
			fmt.Printf("  %-12s %-32s %-12s rating %.1f  workload %-6s  %s\n",
				ct.ID, ct.Name, ct.Location, ct.Rating, ct.Workload, strings.Join(ct.Specialties, ","))
		}
	}
	if kind == "schemes" || kind == "all" {
		fmt.Println("Schemes:")
		for _, s := range c.Schemes {
			fmt.Printf("  %-12s %-36s %-10s max EUR %-8.0f budget %3.0f%%  deadline %s\n",
				s.ID, s.Name, s.Provider, s.MaxAmount, s.RemainingBudget, s.Deadline)
		}
	}
	if kind == "locations" || kind == "all" {
		fmt.Println("Locations:")
		for _, l := range c.Locations {
			fmt.Printf("  %-20s %-8s %.4f,%.4f\n", l.Name, l.PostalCode, l.Latitude, l.Longitude)
		}
	}
	return nil
}

func updateScheme(id, field, value string) error {
	c, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	var target *catalog.Scheme
	for i := range c.Schemes {
		if c.Schemes[i].ID == id {
			target = &c.Schemes[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("scheme with ID %s not found", id)
	}

	switch field {
	case "remainingBudget":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid remainingBudget value: %w", err)
		}
		target.RemainingBudget = v
	case "maxAmount":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid maxAmount value: %w", err)
		}
		target.MaxAmount = v
	case "deadline":
		target.Deadline = value
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("update would leave catalog invalid: %w", err)
	}

	c.LastUpdated = time.Now().Format(time.RFC3339)
	return catalog.SaveCatalog(c, catalogPath)
}

func help() {
	fmt.Println("Usage: catalog-tool <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  validate       Validate the catalog file")
	fmt.Println("    -path        Path to catalog file (default: configs/catalog.json)")
	fmt.Println("  list           Print catalog entries")
	fmt.Println("    -kind        contractors, schemes, locations or all (default: all)")
	fmt.Println("  update-scheme  Update a field of an existing scheme")
	fmt.Println("    -id          Scheme ID")
	fmt.Println("    -field       remainingBudget, deadline or maxAmount")
	fmt.Println("    -value       New value")
	fmt.Println("  help           Show this help message")
}
