package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/waste3d/composecheck/cmd/composecheck/cli/helpers"
	"github.com/waste3d/composecheck/internal/checker"
	"github.com/waste3d/composecheck/pkg/parser"
)

const version = "v0.1.0"

// Коды выхода различают тип ошибки.
const (
	exitOK = iota
	exitMissingService
	exitUnreadable
	exitSettings
)

var (
	infoLog    = color.New(color.FgYellow).Fprintf
	successLog = color.New(color.FgGreen).Fprintf
	errorLog   = color.New(color.FgRed).Fprintf
)

type checkOptions struct {
	configPath string
	services   []string
	all        bool
	verbose    bool
}

var opts checkOptions

var rootCmd = &cobra.Command{
	Use:   "composecheck [file]",
	Short: "composecheck - проверка сервисов в docker-compose.yml",
	Long: `composecheck проверяет, что в docker-compose.yml объявлены сервисы app, web, db и node.
Файл не разбирается как YAML: ищется метка сервиса в начале строки.

Без подкоманды composecheck выполняет 'check'. Аргумент, похожий на имя подкоманды
(например, 'chek'), при отсутствии такого файла считается опечаткой.`,
	Args:          rootArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", parser.DefaultPath, "Путь к файлу настроек")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Подробный вывод")

	addCheckFlags(rootCmd)
}

// addCheckFlags регистрирует флаги проверки только на командах, которые её выполняют.
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&opts.services, "service", "s", nil, "Проверяемый сервис (можно указать несколько раз)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Сообщить обо всех ненайденных сервисах, а не только о первом")
}

func rootArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	if _, err := os.Stat(args[0]); err == nil {
		return nil
	}
	if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
		return fmt.Errorf("неизвестная команда '%s'. Возможно, вы имели в виду: %s", args[0], strings.Join(suggestions, ", "))
	}
	return nil
}

// Execute запускает CLI и возвращает код выхода.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}
	errorLog(os.Stderr, "\n❌ %v\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, helpers.ErrSettings):
		return exitSettings
	case errors.Is(err, checker.ErrUnreadable):
		return exitUnreadable
	case errors.Is(err, checker.ErrServiceMissing):
		return exitMissingService
	default:
		return exitSettings
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
