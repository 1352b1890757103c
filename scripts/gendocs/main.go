// Package main generates the markdown reference for the dbtstyle CLI, its
// configuration, the lint rules and the custom rule API from the source.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=rules -outdir=docs/rules
//	go run ./scripts/gendocs -gen=config -outdir=docs/reference
//	go run ./scripts/gendocs -gen=custom -outdir=docs/reference
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, rules, config, custom, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// generator writes one part of the docs into a directory.
type generator struct {
	name   string
	subdir string
	run    func(outDir string) error
}

var generators = []generator{
	{"cli", "cli", generateCLIDocs},
	{"rules", "rules", generateRuleDocs},
	{"config", "reference", generateConfigDocs},
	{"custom", "reference", generateCustomRuleDocs},
}

func main() {
	flag.Parse()

	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	ran := false
	for _, g := range generators {
		if *genFlag != "all" && *genFlag != g.name {
			continue
		}
		outDir := *outDirFlag
		if outDir == "" || *genFlag == "all" {
			outDir = filepath.Join(projectRoot, "docs", g.subdir)
		}
		if err := g.run(outDir); err != nil {
			log.Fatalf("failed to generate %s docs: %v", g.name, err)
		}
		ran = true
	}
	if !ran {
		log.Fatalf("unknown -gen value: %s (use: cli, rules, config, custom, all)", *genFlag)
	}

	log.Println("Done!")
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
