// Command jclassdump dumps the parsed structure of .class files and JARs
// as indented JSON.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jclassdump",
	Short: "A class-file and JAR reader built for decompiler front-ends",
}

func main() {
	rootCmd.AddCommand(dumpCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jclassdump version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("jclassdump version 0.1.0")
	},
}
