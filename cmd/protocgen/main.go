// Command protocgen drives the build orchestration engine from a YAML
// generation request, the CLI stand-in for the surrounding build tool's
// parameter binding (spec.md §1's "deliberately out of scope" collaborator).
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/protoc-build/protocgen/internal/applog"
	"github.com/protoc-build/protocgen/internal/artifact"
	"github.com/protoc-build/protocgen/internal/fsutil"
	"github.com/protoc-build/protocgen/internal/hostsys"
	"github.com/protoc-build/protocgen/internal/localrepo"
	"github.com/protoc-build/protocgen/internal/model"
	"github.com/protoc-build/protocgen/internal/orchestrator"
	"github.com/protoc-build/protocgen/internal/projectinput"
	"github.com/protoc-build/protocgen/internal/protocexec"
	"github.com/protoc-build/protocgen/internal/request"
	"github.com/protoc-build/protocgen/internal/resolve"
	"github.com/protoc-build/protocgen/internal/sanctioned"
	"github.com/protoc-build/protocgen/internal/uriresolve"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath    string
		repositoryDir string
		offline       bool
		logFormat     string
		logLevel      string
		executionID   string
	)

	cmd := &cobra.Command{
		Use:   "protocgen",
		Short: "Drive protoc from a declarative generation request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), generateOptions{
				configPath:    configPath,
				repositoryDir: repositoryDir,
				offline:       offline,
				logFormat:     logFormat,
				logLevel:      logLevel,
				executionID:   executionID,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "generate.yaml", "path to the generation request YAML file")
	flags.StringVar(&repositoryDir, "repository", defaultRepositoryDir(), "local Maven-layout artifact repository root")
	flags.BoolVar(&offline, "offline", false, "refuse any network access during resolution")
	flags.StringVar(&logFormat, "log-format", "text", "log encoding: text or json")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&executionID, "execution-id", "default", "scopes this run's temporary directory")

	return cmd
}

func defaultRepositoryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".m2/repository"
	}
	return filepath.Join(home, ".m2", "repository")
}

type generateOptions struct {
	configPath    string
	repositoryDir string
	offline       bool
	logFormat     string
	logLevel      string
	executionID   string
}

func runGenerate(ctx context.Context, opts generateOptions) error {
	var level zapcore.Level
	if err := level.Set(opts.logLevel); err != nil {
		return model.NewInvalidInputError("invalid --log-level %q: %v", opts.logLevel, err)
	}
	logger, err := applog.NewLogger(os.Stderr, level, applog.Format(opts.logFormat))
	if err != nil {
		return err
	}
	defer logger.Sync()

	req, err := request.Load(opts.configPath)
	if err != nil {
		return err
	}

	host, err := hostsys.Detect()
	if err != nil {
		return err
	}

	tempSpace, err := fsutil.NewTemporarySpace(filepath.Join(os.TempDir(), "protocgen"), opts.executionID)
	if err != nil {
		return model.NewIoError(opts.executionID, err)
	}

	repo := localrepo.New(opts.repositoryDir)
	artifacts := artifact.NewAdapter(repo, nil, bool(req.FailOnInvalidDependencies))

	fetcher := uriresolve.NewUriResourceFetcher(mustDir(tempSpace, "fetched"), opts.offline)

	protocDir := mustDir(tempSpace, "protoc-bin")
	protocResolver := resolve.NewProtocResolver(host, artifacts, fetcher, protocDir)

	pluginBinDir := mustDir(tempSpace, "plugin-bin")
	pluginScriptDir := mustDir(tempSpace, "plugin-scripts")
	pluginResolver := resolve.NewPluginResolver(host, artifacts, fetcher, pluginBinDir, pluginScriptDir)

	projectInputs := projectinput.NewResolver(artifacts, tempSpace)

	executor := protocexec.NewExecutor(logger)

	var sanctionedTransformer *sanctioned.Transformer
	if req.SanctionedExecutablePath != "" {
		sanctionedTransformer = sanctioned.NewTransformer("protocgen", "cli")
	}

	o := &orchestrator.Orchestrator{
		Host:           host,
		ProtocResolver: protocResolver,
		PluginResolver: pluginResolver,
		ProjectInputs:  projectInputs,
		TempSpace:      tempSpace,
		Executor:       executor,
		Sanctioned:     sanctionedTransformer,
		Logger:         logger,
	}

	result, err := o.Generate(ctx, req)
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		return err
	}

	logger.Info("generation finished", zap.String("result", result.String()))
	if result.ExitCode() != 0 {
		return &exitCodeError{code: result.ExitCode()}
	}
	return nil
}

func mustDir(tempSpace *fsutil.TemporarySpace, tag string) string {
	dir, err := tempSpace.Dir(tag)
	if err != nil {
		panic(fmt.Sprintf("protocgen: could not create temp directory %q: %v", tag, err))
	}
	return dir
}

// exitCodeError carries a pre-computed process exit code for a
// successfully-evaluated but non-zero GenerationResult.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("generation exited with code %d", e.code)
}

// exitCodeFor implements the CLI exit-code table of spec.md §6: the
// GenerationResult cases map through exitCodeError; resolution and I/O
// errors (which never produce a GenerationResult) map to 4 and 5.
func exitCodeFor(err error) int {
	var codeErr *exitCodeError
	if asExitCodeError(err, &codeErr) {
		return codeErr.code
	}
	if model.IsNotFound(err) {
		return 4
	}
	switch err.(type) {
	case *model.ResolutionError:
		return 4
	case *model.IoError, *model.SubprocessError:
		return 5
	default:
		return 5
	}
}

func asExitCodeError(err error, target **exitCodeError) bool {
	codeErr, ok := err.(*exitCodeError)
	if ok {
		*target = codeErr
	}
	return ok
}
