// Package main provides the declgen CLI.
//
// declgen scans Go packages for generic struct declarations and emits the
// typeref registration code for them:
//
//	declgen ./models > models/typeref_decls.go
//	declgen -out models/typeref_decls.go ./models
package main

import (
	"flag"
	"fmt"
	"os"

	"metareflect/internal/declgen"
)

func main() {
	out := flag.String("out", "", "write generated code to this file instead of stdout")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("declgen - generate typeref registrations for generic structs")
		fmt.Println("usage: declgen [-out FILE] PACKAGE_PATTERN ...")
		os.Exit(0)
	}

	pkgs, err := declgen.Load(flag.Args()...)
	if err != nil {
		fmt.Println("load packages:", err)
		os.Exit(1)
	}

	var rendered [][]byte
	for _, p := range pkgs {
		src, err := declgen.Render(p)
		if err != nil {
			fmt.Println("render", p.Path+":", err)
			os.Exit(1)
		}

		if src != nil {
			rendered = append(rendered, src)
		}
	}

	if len(rendered) == 0 {
		fmt.Println("nothing to register")
		os.Exit(0)
	}

	if *out == "" {
		for _, src := range rendered {
			os.Stdout.Write(src)
		}

		return
	}

	if len(rendered) > 1 {
		fmt.Println("-out takes exactly one package with registrations, got", len(rendered))
		os.Exit(1)
	}

	if err := os.WriteFile(*out, rendered[0], 0o644); err != nil {
		fmt.Println("write file:", err)
		os.Exit(1)
	}
}
