// Command validate-config checks a content directory's configuration files
// before the site or the admin API is pointed at them.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mtldev514/retro-portfolio/pkg/portfolio/siteconfig"
)

func main() {
	dir := flag.String("dir", ".", "content directory to validate")
	flag.Parse()
	if flag.NArg() > 0 {
		*dir = flag.Arg(0)
	}

	site, err := siteconfig.Load(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	report := site.Validate(*dir)
	for _, msg := range report.Errors {
		fmt.Printf("❌ %s\n", msg)
	}
	for _, msg := range report.Warnings {
		fmt.Printf("⚠️  %s\n", msg)
	}

	if !report.Ok() {
		fmt.Printf("\n%d error(s), %d warning(s)\n", len(report.Errors), len(report.Warnings))
		os.Exit(1)
	}
	fmt.Printf("✅ Configuration valid (%d warning(s))\n", len(report.Warnings))
}
