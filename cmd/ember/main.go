// ember compiles Kaleidoscope style sources to LLVM IR, or reads them one
// construct at a time from an interactive prompt.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"

	"go.ember.dev/pkg"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	emitFlag = cli.StringFlag{
		Name:  "emit",
		Usage: "Output to produce for source files: tokens, ast, dump or ir",
		Value: "ir",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	moduleFlag = cli.StringFlag{
		Name:  "module",
		Usage: "Name of the generated LLVM module",
	}
	keepTopLevelFlag = cli.BoolFlag{
		Name:  "keep-toplevel",
		Usage: "Keep the functions generated for top-level expressions",
	}
	builtinsFlag = cli.BoolFlag{
		Name:  "builtins",
		Usage: "Predefine the printd builtin",
	}

	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "",
		Description: `The dumpconfig command shows the effective configuration in TOML.`,
	}
)

var app = cli.NewApp()

func init() {
	app.Name = "ember"
	app.Usage = "the ember compiler front end"
	app.ArgsUsage = "[source files]"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		configFileFlag,
		emitFlag,
		verbosityFlag,
		moduleFlag,
		keepTopLevelFlag,
		builtinsFlag,
	}
	app.Commands = []cli.Command{
		dumpConfigCommand,
	}
	app.Before = setupLogging
	app.Action = compile
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) error {
	usecolor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	output := io.Writer(os.Stderr)
	if usecolor {
		output = colorable.NewColorableStderr()
	}

	log.Root().SetHandler(newLogHandler(output, usecolor, ctx.GlobalInt(verbosityFlag.Name)))

	return nil
}

// newLogHandler prints records up to verbosity, which counts like log.Lvl:
// 1 is error and 5 is trace.
func newLogHandler(w io.Writer, usecolor bool, verbosity int) log.Handler {
	return log.LvlFilterHandler(log.Lvl(verbosity), log.StreamHandler(w, log.TerminalFormat(usecolor)))
}

// makeConfig loads the defaults, then the config file, then applies flags.
func makeConfig(ctx *cli.Context) (*ember.Config, error) {
	cfg := ember.DefaultConfig()

	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := ember.LoadConfig(file, cfg); err != nil {
			return nil, err
		}
	}

	if ctx.GlobalIsSet(moduleFlag.Name) {
		cfg.Codegen.ModuleName = ctx.GlobalString(moduleFlag.Name)
	}
	if ctx.GlobalIsSet(keepTopLevelFlag.Name) {
		cfg.Codegen.KeepTopLevel = ctx.GlobalBool(keepTopLevelFlag.Name)
	}
	if ctx.GlobalIsSet(builtinsFlag.Name) {
		cfg.Codegen.Builtins = ctx.GlobalBool(builtinsFlag.Name)
	}

	return cfg, nil
}

// compile is the main entry point. Without arguments it starts the REPL.
func compile(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return repl(cfg)
	}

	emit, err := emitterFor(ctx.GlobalString(emitFlag.Name))
	if err != nil {
		return err
	}

	failed := false
	for _, file := range ctx.Args() {
		errs, err := emit(cfg, file, os.Stdout)
		if err != nil {
			return err
		}

		if len(errs) != 0 {
			printErrors(errs)
			failed = true
		}
	}

	if failed {
		return cli.NewExitError("", 1)
	}
	return nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	out, err := cfg.Marshal()
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(out)
	return err
}

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	errorLoc   = color.New(color.FgCyan).SprintFunc()
)

func printErrors(errors []error) {
	for _, err := range errors {
		switch e := err.(type) {
		case *ember.SyntaxError:
			fmt.Fprintln(os.Stderr, errorLabel("Syntax error:"), "unexpected", e.Got, "expected", e.Expected, "at", errorLoc(e.Loc))
		case *ember.UndefinedError:
			fmt.Fprintln(os.Stderr, errorLabel("Undefined "+e.Kind+":"), e.Name)
		case *ember.ArityError:
			fmt.Fprintln(os.Stderr, errorLabel("Wrong argument count:"), e.Name, "takes", e.Expected, "got", e.Got)
		case *ember.UnknownOperatorError:
			fmt.Fprintln(os.Stderr, errorLabel("Unknown operator:"), e.Op)
		case *ember.RedefinitionError:
			fmt.Fprintln(os.Stderr, errorLabel("Redefinition:"), e.Name, "-", e.Reason)
		default:
			fmt.Fprintln(os.Stderr, errorLabel("Error:"), err)
		}
	}
}
