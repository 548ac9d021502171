package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// globalOptions 所有子命令共享的路径/日志参数
type globalOptions struct {
	configPath   string
	userDataDir  string
	documentsDir string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	serve := &serveOptions{}

	root := &cobra.Command{
		Use:   "ispeaker",
		Short: "iSpeakerReact backend",
		Long: `ispeaker is the local backend of iSpeakerReact. It owns the user's save folder,
moves it between locations on request and streams progress to the front end.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, serve)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "backend config file (default <user-data-dir>/backend.toml)")
	pf.StringVar(&opts.userDataDir, "user-data-dir", "", "user data directory (default $ISPEAKER_USER_DATA_DIR or the OS config dir)")
	pf.StringVar(&opts.documentsDir, "documents-dir", "", "documents directory holding the default save folder")
	pf.StringVar(&opts.logLevel, "log-level", "", "stderr log level (trace, debug, info, warn, error)")

	root.Flags().AddFlagSet(serveFlags(serve))

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newFolderCmd(opts))
	root.AddCommand(newCheckPathCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(versionCmd)
	return root
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ispeaker version %s\n", version)
	},
}
