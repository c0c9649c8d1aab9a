package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/waste3d/composecheck/cmd/composecheck/cli/helpers"
	"github.com/waste3d/composecheck/internal/checker"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Проверяет, что в файле объявлены все нужные сервисы",
	Long:  "Команда 'check' читает docker-compose.yml (или указанный файл) и ищет в нём метки app:, web:, db: и node: в начале строки.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	addCheckFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	var fileArg string
	if len(args) > 0 {
		fileArg = args[0]
	}
	return runCheckLogic(cmd.OutOrStdout(), newLogger(opts.verbose), opts, fileArg)
}

func runCheckLogic(out io.Writer, logger *slog.Logger, o checkOptions, fileArg string) error {
	req, err := helpers.Resolve(o.configPath, fileArg, o.services)
	if err != nil {
		return err
	}

	logger.Debug("параметры проверки", "file", req.File, "services", req.Services)

	c := checker.New(
		checker.WithServices(req.Services...),
		checker.WithLogger(logger),
	)

	if o.verbose {
		infoLog(out, "Проверка %s...\n", req.File)
	}

	text, err := c.ReadText(req.File)
	if err != nil {
		return err
	}

	if !o.all && !o.verbose {
		if err := c.CheckText(text); err != nil {
			return fmt.Errorf("%s: %w", req.File, err)
		}
		successLog(out, "✅ %s: все сервисы объявлены (%s)\n", req.File, strings.Join(req.Services, ", "))
		return nil
	}

	results := c.Evaluate(text)
	var missing []string
	for _, r := range results {
		if r.Found {
			if o.verbose {
				successLog(out, "  ✔ %s\n", r.Service)
			}
			continue
		}
		if o.verbose {
			errorLog(out, "  ✘ %s (%s)\n", r.Service, r.Pattern)
		}
		missing = append(missing, r.Service)
	}
	if o.all && len(missing) > 0 {
		return fmt.Errorf("в %s не объявлены сервисы: %s: %w", req.File, strings.Join(missing, ", "), checker.ErrServiceMissing)
	}
	if err := checker.FirstMissing(results); err != nil {
		return fmt.Errorf("%s: %w", req.File, err)
	}

	successLog(out, "✅ %s: все сервисы объявлены (%s)\n", req.File, strings.Join(req.Services, ", "))
	return nil
}
