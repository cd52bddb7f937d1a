package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "automontage [project.yaml]",
		Short:        "Sync gameplay clips to beat drops over a music track",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath := ""
			if len(args) == 1 {
				projectPath = args[0]
			}
			return run(cmd, projectPath)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("out", "out", "Output directory")
	root.Flags().Int("fps", 0, "Output frame rate (0 = project value)")
	root.Flags().String("song", "", "Song file overriding the project file")
	root.Flags().String("clips-dir", "", "Clips directory overriding the project file")
	root.Flags().String("kills", "", "Comma-separated kill times overriding the project file")
	root.Flags().String("beats", "", "Comma-separated beat-drop times overriding the project file")

	// Hidden tuning flag (internal)
	root.Flags().String("preset", "", "x264 encoder preset")
	_ = root.Flags().MarkHidden("preset")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
