// Command hashcheck generates single-file digest records and verifies
// files against them.
//
//	hashcheck [-config FILE] sum      [-algorithm A] [-json] FILE|-
//	hashcheck [-config FILE] generate [-algorithm A] [-output PATH|-] [-json] FILE
//	hashcheck [-config FILE] detect   [-json] RECORD
//	hashcheck [-config FILE] verify   [-algorithm A] -record RECORD [-json] FILE
//
// verify without -algorithm detects the algorithm from the record.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/hashcheck/algorithm"
	"github.com/byte4ever/hashcheck/checksum"
	"github.com/byte4ever/hashcheck/config"
	"github.com/byte4ever/hashcheck/detector"
	"github.com/byte4ever/hashcheck/digester"
	"github.com/byte4ever/hashcheck/record"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage")

// env bundles the process streams so run can be tested.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

// argPicker serves selections that were given on the command line.
type argPicker struct {
	files  []string
	output string
	dir    string
}

func (ap *argPicker) SelectFile() (string, bool) {
	if len(ap.files) == 0 {
		return "", false
	}

	pa := ap.files[0]
	ap.files = ap.files[1:]

	return pa, true
}

// ChooseSaveLocation returns -output when set, else the suggested
// name next to the target.
func (ap *argPicker) ChooseSaveLocation(name string) (string, bool) {
	if ap.output != "" {
		return ap.output, true
	}

	return filepath.Join(ap.dir, name), true
}

// cliNotifier prints outcomes on stdout and routes problems through
// slog. In JSON mode stdout is reserved for the result document.
type cliNotifier struct {
	out     io.Writer
	log     *slog.Logger
	jsonOut bool
}

func (cn *cliNotifier) Notify(level checksum.Level, msg string) {
	switch level {
	case checksum.LevelWarning:
		cn.log.Warn(msg)
	case checksum.LevelError:
		cn.log.Error(msg)
	default:
		if cn.jsonOut {
			cn.log.Info(msg, "level", level.String())

			return
		}

		_, _ = fmt.Fprintln(cn.out, msg) //nolint:errcheck // best-effort console output
	}
}

func usage(w io.Writer) {
	_, _ = fmt.Fprint(w, `usage:
  hashcheck [-config FILE] sum      [-algorithm A] [-json] FILE|-
  hashcheck [-config FILE] generate [-algorithm A] [-output PATH|-] [-json] FILE
  hashcheck [-config FILE] detect   [-json] RECORD
  hashcheck [-config FILE] verify   [-algorithm A] -record RECORD [-json] FILE

algorithms: `+strings.Join(names(), ", ")+"\n") //nolint:errcheck // usage text
}

func names() []string {
	all := append(algorithm.Supported(), algorithm.Extended()...)
	out := make([]string, 0, len(all))

	for _, al := range all {
		out = append(out, al.String())
	}

	return out
}

// run executes one command. Errors it returns have not been shown to
// the user yet; failures already reported through the notifier only
// set the exit code.
func run(args []string, ev env) (int, error) {
	const errCtx = "hashcheck"

	global := flag.NewFlagSet("hashcheck", flag.ContinueOnError)
	global.SetOutput(ev.stderr)
	global.Usage = func() { usage(ev.stderr) }

	cfgPath := global.String(
		"config", "",
		"YAML config file (default $"+config.EnvPath+")",
	)

	if err := global.Parse(args); err != nil {
		return exitUsage, fmt.Errorf("%s: %w", errCtx, err)
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(ev.stderr)

		return exitUsage, fmt.Errorf("%s: %w: missing command", errCtx, errUsage)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return exitFailure, fmt.Errorf("%s: %w", errCtx, err)
	}

	cmd, cmdArgs := rest[0], rest[1:]

	switch cmd {
	case "sum":
		return runSum(cmdArgs, cfg, ev)
	case "generate":
		return runGenerate(cmdArgs, cfg, ev)
	case "detect":
		return runDetect(cmdArgs, cfg, ev)
	case "verify":
		return runVerify(cmdArgs, cfg, ev)
	default:
		usage(ev.stderr)

		return exitUsage, fmt.Errorf(
			"%s: %w: unknown command %q", errCtx, errUsage, cmd,
		)
	}
}

// command holds the flags shared by every subcommand.
type command struct {
	fs      *flag.FlagSet
	alg     string
	jsonOut bool
}

func newCommand(name string, ev env) *command {
	cm := &command{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	cm.fs.SetOutput(ev.stderr)
	cm.fs.BoolVar(&cm.jsonOut, "json", false, "print the result as JSON")

	return cm
}

func (cm *command) withAlgorithm() *command {
	cm.fs.StringVar(
		&cm.alg, "algorithm", "",
		"digest algorithm (default from config)",
	)

	return cm
}

// parse parses flags and requires exactly one positional argument.
func (cm *command) parse(args []string, what string) (string, error) {
	if err := cm.fs.Parse(args); err != nil {
		return "", fmt.Errorf("%s: %w", cm.fs.Name(), err)
	}

	if cm.fs.NArg() != 1 {
		return "", fmt.Errorf(
			"%s: %w: expected one %s argument", cm.fs.Name(), errUsage, what,
		)
	}

	return cm.fs.Arg(0), nil
}

// controller builds a Controller for this command, applying an
// explicit -algorithm over the configured default.
func (cm *command) controller(
	cfg config.Config,
	pk checksum.Picker,
	ev env,
) (*checksum.Controller, error) {
	ct, err := checksum.NewController(cfg, pk, &cliNotifier{
		out: ev.stdout, log: ev.log, jsonOut: cm.jsonOut,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cm.fs.Name(), err)
	}

	if cm.alg != "" {
		al, err := algorithm.Parse(cm.alg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cm.fs.Name(), err)
		}

		ct.State.Algorithm = al
	}

	return ct, nil
}

func runSum(args []string, cfg config.Config, ev env) (int, error) {
	cm := newCommand("sum", ev).withAlgorithm()

	target, err := cm.parse(args, "FILE")
	if err != nil {
		return exitUsage, err
	}

	ct, err := cm.controller(cfg, &argPicker{}, ev)
	if err != nil {
		return exitFailure, err
	}

	al := ct.State.Algorithm

	var dg string

	if target == "-" {
		dg, err = digester.Sum(ev.stdin, al)
	} else {
		dg, err = digester.Calculate(target, al)
	}

	if err != nil {
		return exitFailure, fmt.Errorf("sum: %w", err)
	}

	rec := record.Record{Algorithm: al, Digest: dg, Filename: filepath.Base(target)}

	if cm.jsonOut {
		return writeJSON(ev.stdout, rec)
	}

	_, err = fmt.Fprintf(ev.stdout, "%s  %s\n", rec.Digest, rec.Filename)
	if err != nil {
		return exitFailure, fmt.Errorf("sum: writing output: %w", err)
	}

	return exitOK, nil
}

func runGenerate(args []string, cfg config.Config, ev env) (int, error) {
	cm := newCommand("generate", ev).withAlgorithm()

	var output string

	cm.fs.StringVar(
		&output, "output", "",
		"record path, - for stdout (default: suggested name next to FILE)",
	)

	target, err := cm.parse(args, "FILE")
	if err != nil {
		return exitUsage, err
	}

	pk := &argPicker{
		files:  []string{target},
		output: output,
		dir:    filepath.Dir(target),
	}

	ct, err := cm.controller(cfg, pk, ev)
	if err != nil {
		return exitFailure, err
	}

	ct.SelectTarget()

	if output == "-" {
		rec, err := checksum.Generate(ct.State.Target, ct.State.Algorithm)
		if err != nil {
			return exitFailure, fmt.Errorf("generate: %w", err)
		}

		if cm.jsonOut {
			return writeJSON(ev.stdout, checksum.Saved{Record: rec})
		}

		if err := ct.Format.Write(ev.stdout, rec); err != nil {
			return exitFailure, fmt.Errorf("generate: %w", err)
		}

		return exitOK, nil
	}

	saved, err := ct.GenerateRecord()
	if err != nil {
		return exitFailure, nil
	}

	if !cm.jsonOut {
		return exitOK, nil
	}

	return writeJSON(ev.stdout, saved)
}

type detection struct {
	Record    string              `json:"record"`
	Algorithm algorithm.Algorithm `json:"algorithm"`
}

func runDetect(args []string, cfg config.Config, ev env) (int, error) {
	cm := newCommand("detect", ev)

	rp, err := cm.parse(args, "RECORD")
	if err != nil {
		return exitUsage, err
	}

	ct, err := cm.controller(cfg, &argPicker{files: []string{rp}}, ev)
	if err != nil {
		return exitFailure, err
	}

	// Detection outcome is reported by the notifier; stdout carries
	// the bare algorithm name for scripting.
	ct.Notifier = &cliNotifier{out: io.Discard, log: ev.log, jsonOut: true}

	if err := ct.SelectRecord(); err != nil {
		return exitFailure, nil
	}

	if cm.jsonOut {
		return writeJSON(ev.stdout, detection{Record: rp, Algorithm: ct.State.Algorithm})
	}

	if _, err := fmt.Fprintln(ev.stdout, ct.State.Algorithm); err != nil {
		return exitFailure, fmt.Errorf("detect: writing output: %w", err)
	}

	return exitOK, nil
}

func runVerify(args []string, cfg config.Config, ev env) (int, error) {
	cm := newCommand("verify", ev).withAlgorithm()

	var rp string

	cm.fs.StringVar(&rp, "record", "", "digest record to verify against")

	target, err := cm.parse(args, "FILE")
	if err != nil {
		return exitUsage, err
	}

	if rp == "" {
		return exitUsage, fmt.Errorf("verify: %w: -record is required", errUsage)
	}

	ct, err := cm.controller(cfg, &argPicker{files: []string{target, rp}}, ev)
	if err != nil {
		return exitFailure, err
	}

	ct.SelectTarget()

	if cm.alg == "" {
		if err := ct.SelectRecord(); err != nil &&
			!errors.Is(err, detector.ErrUndetected) {
			return exitFailure, nil
		}
	} else {
		ct.State.Record = rp
	}

	res, err := ct.CompareRecord()
	if err != nil {
		return exitFailure, nil
	}

	code := exitOK
	if !res.Match {
		code = exitFailure
	}

	if cm.jsonOut {
		if _, err := writeJSON(ev.stdout, res); err != nil {
			return exitFailure, err
		}
	}

	return code, nil
}

func writeJSON(w io.Writer, v interface{}) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return exitFailure, fmt.Errorf("writing json: %w", err)
	}

	return exitOK, nil
}

func main() {
	ev := env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    slog.Default(),
	}

	code, err := run(os.Args[1:], ev)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(exitOK)
		}

		slog.Error(err.Error())
	}

	os.Exit(code)
}
