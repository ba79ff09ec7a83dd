package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saitenko/jclass/classfile"
	"github.com/saitenko/jclass/jarfile"
)

var (
	strict  bool
	entries bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump [class|jar] <path>",
	Short: "Parse a .class file or .jar archive and print it as JSON",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		kind, path := args[0], args[1]
		switch kind {
		case "class":
			dumpClass(path)
		case "jar":
			dumpJar(path)
		default:
			log.Fatalf("unknown dump kind %q, want \"class\" or \"jar\"", kind)
		}
	},
}

func init() {
	dumpCmd.Flags().BoolVar(&strict, "strict", false, "reject malformed constant pool tags instead of recovering")
	dumpCmd.Flags().BoolVar(&entries, "entries", false, "for jar dumps, list every entry name instead of the manifest and classes")
}

func prettyPrint(v interface{}) string {
	buf, err := json.Marshal(v)
	if err != nil {
		log.Printf("JSON marshal error: %v", err)
		return fmt.Sprintf("%+v", v)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "  "); err != nil {
		log.Printf("JSON indent error: %v", err)
		return string(buf)
	}
	return pretty.String()
}

func dumpClass(path string) {
	cf, err := classfile.Open(path, &classfile.Options{Strict: strict})
	if err != nil {
		log.Fatalf("parsing %s: %v", path, err)
	}
	fmt.Println(prettyPrint(cf))
}

func dumpJar(path string) {
	jar, err := jarfile.Open(path, nil)
	if err != nil {
		log.Fatalf("opening %s: %v", path, err)
	}
	defer jar.Close()

	if entries {
		for _, name := range jar.List() {
			fmt.Println(name)
		}
		return
	}

	manifest, err := jar.Manifest()
	if err != nil {
		log.Fatalf("reading manifest of %s: %v", path, err)
	}
	fmt.Println(prettyPrint(manifest.MainSection()))

	for _, name := range jar.List() {
		if !strings.HasSuffix(name, ".class") {
			continue
		}
		data, ok, err := jar.OpenBinary(name)
		if err != nil || !ok {
			log.Printf("skipping %s: %v", name, err)
			continue
		}
		cf, err := classfile.ParseBytes(data, &classfile.Options{Strict: strict})
		if err != nil {
			log.Printf("skipping %s (%s): %v", name, filepath.Base(name), err)
			continue
		}
		fmt.Println(prettyPrint(cf))
	}
}
