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
		Use:           "ytclipper",
		Short:         "Cut highlight clips out of YouTube live streams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.PersistentFlags().String("downloads", "downloads", "Directory for transcripts and clips")
	root.PersistentFlags().StringSlice("langs", nil, "Subtitle language priority (default ja,ja-JP,en)")
	root.PersistentFlags().String("template", "", "YAML file overriding the built-in prompt template")

	promptCmd := &cobra.Command{
		Use:   "prompt <video-url>",
		Short: "Fetch subtitles and print the model prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd, args[0])
		},
	}

	extractCmd := &cobra.Command{
		Use:   "extract <video-url>",
		Short: "Cut clips from a model reply and a saved transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0])
		},
	}
	extractCmd.Flags().String("subtitles", "", "Path of the saved transcript file")
	extractCmd.Flags().String("reply", "", "File holding the model reply JSON (default stdin)")
	_ = extractCmd.MarkFlagRequired("subtitles")

	root.AddCommand(promptCmd, extractCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
