package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/spf13/cobra"
)

// NewLanguagesCmd creates the languages command
func NewLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List language codes accepted by --language",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printLanguages(cmd.OutOrStdout())
		},
	}
}

func printLanguages(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-6s %s\n", "Code", "Language")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 30))
	for _, code := range domain.LanguageCodes() {
		fmt.Fprintf(w, "  %-6s %s\n", code, domain.Languages[code])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Leave --language empty to let the API detect the language.")
}
