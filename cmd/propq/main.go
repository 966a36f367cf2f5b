// Package main provides the propq CLI.
//
// propq loads a YAML document and reads or rewrites it by property path:
//
//	propq -f config.yaml server.host replicas[0].name
//	propq -f config.yaml -set server.port=6432 -out updated.yaml
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"metareflect/meta"
)

func main() {
	file := flag.String("f", "", "YAML file to load")
	set := flag.String("set", "", "PATH=VALUE assignment to apply before reading")
	out := flag.String("out", "", "write the (possibly modified) document to this file")
	flag.Parse()

	if *file == "" {
		fmt.Println("propq - query and rewrite YAML documents by property path")
		fmt.Println("usage: propq -f FILE [-set PATH=VALUE] [-out FILE] [PATH ...]")
		os.Exit(0)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Println("read file:", err)
		os.Exit(1)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		fmt.Println("parse yaml:", err)
		os.Exit(1)
	}

	m := meta.SystemMetaObject(doc)

	if *set != "" {
		path, value, ok := strings.Cut(*set, "=")
		if !ok {
			fmt.Println("-set wants PATH=VALUE")
			os.Exit(1)
		}

		if err := m.SetValue(path, parseScalar(value)); err != nil {
			fmt.Println("set", path+":", err)
			os.Exit(1)
		}
	}

	for _, path := range flag.Args() {
		v, err := m.GetValue(path)
		if err != nil {
			fmt.Println("get", path+":", err)
			os.Exit(1)
		}

		fmt.Printf("%s = ", path)
		spew.Dump(v)
	}

	if *out != "" {
		enc, err := yaml.Marshal(doc)
		if err != nil {
			fmt.Println("encode yaml:", err)
			os.Exit(1)
		}

		if err := os.WriteFile(*out, enc, 0o644); err != nil {
			fmt.Println("write file:", err)
			os.Exit(1)
		}
	}
}

// parseScalar keeps assignments convenient on the command line: numbers and
// booleans become typed values, everything else stays a string.
func parseScalar(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}

	return s
}
