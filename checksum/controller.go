package checksum

import (
	"errors"
	"fmt"

	"github.com/byte4ever/hashcheck/algorithm"
	"github.com/byte4ever/hashcheck/config"
	"github.com/byte4ever/hashcheck/detector"
	"github.com/byte4ever/hashcheck/record"
)

// State is what the user has selected so far.
type State struct {
	// Target is the file to digest or verify.
	Target string

	// Record is the digest record to verify against.
	Record string

	// Algorithm is the current selection. Detection overwrites it.
	Algorithm algorithm.Algorithm
}

// Saved is a record that was written to Path.
type Saved struct {
	record.Record

	Path string `json:"path,omitempty"`
}

// Controller runs the user-facing flows over State. Every failure is
// reported once through Notifier and also returned to the caller.
type Controller struct {
	State    State
	Picker   Picker
	Notifier Notifier
	Table    detector.Table
	Format   record.Format
}

// NewController builds a Controller whose initial algorithm, table
// and record format come from cfg.
func NewController(
	cfg config.Config,
	pk Picker,
	nt Notifier,
) (*Controller, error) {
	const errCtx = "creating controller"

	al, err := cfg.DefaultAlgorithm()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	tb, err := cfg.Table()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &Controller{
		State:    State{Algorithm: al},
		Picker:   pk,
		Notifier: nt,
		Table:    tb,
		Format:   cfg.Format(),
	}, nil
}

// SelectTarget asks the Picker for the file to work on. It reports
// false and leaves State untouched when the user cancels.
func (ct *Controller) SelectTarget() bool {
	pa, ok := ct.Picker.SelectFile()
	if !ok || pa == "" {
		return false
	}

	ct.State.Target = pa

	return true
}

// SelectRecord asks the Picker for a record file and then runs
// DetectAndApply on it. Cancelling is not an error.
func (ct *Controller) SelectRecord() error {
	pa, ok := ct.Picker.SelectFile()
	if !ok || pa == "" {
		return nil
	}

	ct.State.Record = pa

	_, err := ct.DetectAndApply()

	return err
}

// DetectAndApply infers the algorithm of the selected record and
// makes it the current selection. When detection fails the current
// selection is kept.
func (ct *Controller) DetectAndApply() (algorithm.Algorithm, error) {
	const errCtx = "detecting record algorithm"

	if ct.State.Record == "" {
		return "", ct.fail(fmt.Errorf(
			"%s: %w: select a digest record", errCtx, ErrNoSelection,
		))
	}

	al, err := detector.DetectFile(ct.State.Record, ct.Table)
	if err != nil {
		if errors.Is(err, detector.ErrUndetected) {
			ct.notify(LevelWarning, fmt.Sprintf(
				"unrecognized digest algorithm, select one manually (keeping %s)",
				ct.State.Algorithm.Upper(),
			))

			return "", fmt.Errorf("%s: %w", errCtx, err)
		}

		return "", ct.fail(fmt.Errorf("%s: %w", errCtx, err))
	}

	ct.State.Algorithm = al
	ct.notify(LevelInfo, fmt.Sprintf(
		"detected digest algorithm: %s", al.Upper(),
	))

	return al, nil
}

// GenerateRecord digests the selected target, asks where to save the
// record and writes it. Saved.Path is empty when the user cancels the
// save.
func (ct *Controller) GenerateRecord() (Saved, error) {
	const errCtx = "generating record file"

	if ct.State.Target == "" {
		return Saved{}, ct.fail(fmt.Errorf(
			"%s: %w: select a file", errCtx, ErrNoSelection,
		))
	}

	al := ct.State.Algorithm

	rec, err := Generate(ct.State.Target, al)
	if err != nil {
		return Saved{}, ct.fail(fmt.Errorf("%s: %w", errCtx, err))
	}

	pa, ok := ct.Picker.ChooseSaveLocation(
		ct.Format.SuggestName(ct.State.Target, al),
	)
	if !ok || pa == "" {
		return Saved{Record: rec}, nil
	}

	if err := ct.Format.Save(pa, rec); err != nil {
		return Saved{}, ct.fail(fmt.Errorf(
			"%s: cannot write %s file: %w", errCtx, al.Upper(), err,
		))
	}

	ct.notify(LevelSuccess, fmt.Sprintf(
		"%s file generated: %s", al.Upper(), pa,
	))

	return Saved{Record: rec, Path: pa}, nil
}

// CompareRecord checks the selected target against the selected
// record with the current algorithm. A mismatch is not an error; it
// is reported through Result.Match and an error-level notification.
func (ct *Controller) CompareRecord() (Result, error) {
	const errCtx = "comparing with record"

	if ct.State.Target == "" || ct.State.Record == "" {
		return Result{}, ct.fail(fmt.Errorf(
			"%s: %w: select both a file and a digest record",
			errCtx, ErrNoSelection,
		))
	}

	res, err := Compare(ct.State.Target, ct.State.Record, ct.State.Algorithm)
	if err != nil {
		return Result{}, ct.fail(fmt.Errorf("%s: %w", errCtx, err))
	}

	if res.Match {
		ct.notify(LevelSuccess, fmt.Sprintf(
			"%s values match", res.Algorithm.Upper(),
		))
	} else {
		ct.notify(LevelError, fmt.Sprintf(
			"%s values differ", res.Algorithm.Upper(),
		))
	}

	return res, nil
}

// fail reports err and returns it unchanged.
func (ct *Controller) fail(err error) error {
	level := LevelError

	switch Kind(err) {
	case KindNoSelection, KindUndetected:
		level = LevelWarning
	}

	ct.notify(level, err.Error())

	return err
}

func (ct *Controller) notify(level Level, msg string) {
	if ct.Notifier == nil {
		return
	}

	ct.Notifier.Notify(level, msg)
}
