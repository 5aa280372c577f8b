package envup

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/envup/pkg/cobrax/topics"
	"github.com/arthur-debert/envup/pkg/logging"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicsFS embed.FS

// initTopics installs `help <topic>` backed by the embedded markdown topics
func initTopics(rootCmd *cobra.Command) {
	sub, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		_, err = topics.Initialize(rootCmd, sub, topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
	}
	if err != nil {
		logger := logging.GetLogger("cmd.topics")
		logger.Warn().Err(err).Msg("Help topics unavailable")
	}
}
