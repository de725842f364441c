package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"phonenorm_backend/internal/phones"
	"phonenorm_backend/internal/phones/service"
	"phonenorm_backend/platform/apperr"
	"phonenorm_backend/platform/config"
	"phonenorm_backend/platform/logger"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "phonenorm:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode reports input problems with 2 and every other failure with 1.
func exitCode(err error) int {
	switch apperr.GetKind(err) {
	case apperr.KindValidation, apperr.KindBadRequest:
		return 2
	default:
		return 1
	}
}

// run normalizes a CSV column when -column is set, otherwise one number
// per line of free text, and writes the results as CSV.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("phonenorm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "-", "input file, - for stdin")
	out := fs.String("out", "-", "output file, - for stdout")
	column := fs.String("column", "", "CSV column holding phone numbers; free text mode when empty")
	basic := fs.Bool("basic", false, "disable noise-tolerant cleanup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *basic {
		cfg.PhoneNoiseTolerant = false
	}

	log := logger.NewWithWriter(cfg.Env, stderr)

	normalizer, err := phones.NewNormalizer(cfg, log)
	if err != nil {
		return err
	}
	// PHONE_MAX_BATCH guards the HTTP endpoints only.
	svc := service.New(normalizer, 0, log)

	reader := stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		reader = f
	}

	var inputs []string
	if *column != "" {
		inputs, err = service.ReadCSVColumn(reader, *column)
		if err != nil {
			return err
		}
	} else {
		data, err := io.ReadAll(reader)
		if err != nil {
			return err
		}
		inputs = service.SplitFreeText(string(data))
	}
	if len(inputs) == 0 {
		return errors.New("no input rows")
	}

	result, err := svc.NormalizeBatch(ctx, inputs)
	if err != nil {
		return err
	}

	writer := stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		writer = f
	}
	return service.WriteCSV(writer, result.Items)
}
