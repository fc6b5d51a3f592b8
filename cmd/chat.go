package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/conversation"
	"github.com/spigell/talentscout/internal/translate"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Screen a candidate in the terminal",
	PreRun: func(cmd *cobra.Command, _ []string) {
		// report-dir is shared by chat and serve, bind the flag of the running command only
		viper.BindPFlag("report-dir", cmd.Flags().Lookup("report-dir"))
	},
	Run: func(_ *cobra.Command, _ []string) {
		chat()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("language", "l", "", "language of the conversation: en, fr, es, de or hi. Asked interactively when unset.")
	chatCmd.Flags().StringP("report-dir", "r", "", "directory for the candidate report. Default is the system temp dir.")

	viper.BindPFlag("language", chatCmd.Flags().Lookup("language"))
}

// chat runs one screening conversation on stdin/stdout.
func chat() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, config := setup()

	language := config.Language
	if language == "" {
		var err error
		language, err = selectLanguage()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	machine := buildMachine(ctx, config, logger)
	session := conversation.NewSession(uuid.NewString(), language)
	logger.Debug("session started", zap.String("session_id", session.ID), zap.String("language", language))

	say(machine.Begin(ctx, session))

	input := promptui.Prompt{Label: "You"}
	for !session.Done() {
		text, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("conversation interrupted", zap.String("step", session.Step.String()))
				break
			}
			logger.Fatal("reading input", zap.Error(err))
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		say(machine.Handle(ctx, session, text))
	}

	filename, err := conversation.WriteReport(config.ReportDir, session)
	if err != nil {
		logger.Error("writing candidate report", zap.Error(err))
		return
	}
	logger.Info("candidate report saved", zap.String("filename", filename))
}

func selectLanguage() (string, error) {
	items := make([]string, 0, len(translate.Codes))
	for _, code := range translate.Codes {
		items = append(items, fmt.Sprintf("%s (%s)", translate.Languages[code], code))
	}

	prompt := promptui.Select{
		Label: "Choose a language",
		Items: items,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return translate.Codes[idx], nil
}

func say(text string) {
	fmt.Printf("\n%s\n\n", text)
}
