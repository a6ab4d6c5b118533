package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tululu",
	Short: "Download books, covers and metadata from tululu.org.",
	Long: `Download books, covers and metadata from tululu.org.

Books are walked by id, missing ids are skipped and the run waits for the
connection to come back when it is lost.

Provide a configuration file using one of the following methods:
1. Use the --config <path> or -c <path> flag.
2. Place a config.yaml file in the default user configuration directory (e.g., ~/.config/tululu/).
3. Place a config.yaml file a folder inside your home directory (e.g., ~/.tululu/).
4. Place a config.yaml file in the working directory.

Every key can be overridden with a TULULU__ environment variable, e.g. TULULU__DEST_FOLDER.`,
}

func init() {
	initRootFlags()
	initDownloadFlags()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(downloadCmd)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
