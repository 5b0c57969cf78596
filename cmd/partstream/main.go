// Copyright 2026 The Partstream Authors
// SPDX-License-Identifier: Apache-2.0

// partstream assembles form fields and file attachments into a
// multipart/form-data body and writes it to stdout or a file.
//
// Scalar fields come from repeated --field flags, attachments from
// repeated --attach flags; scalars are emitted before attachments.
// The body is produced through the streaming encoder, so attachments
// of any size flow through without being buffered whole.
//
//	partstream --field title="report" \
//	    --attach "logs=/var/log/agent.log;type=text/plain" \
//	    --output body.bin
//
// With --length-only, the declared total length is printed instead of
// producing the body: the exact number of bytes a later production
// run will emit, computed without reading any attachment.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/partstream/partstream/flow"
	"github.com/partstream/partstream/lib/config"
	"github.com/partstream/partstream/lib/version"
	"github.com/partstream/partstream/multipart"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "partstream: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		fieldSpecs  []string
		attachSpecs []string
		recipients  []string
		boundary    string
		compression string
		digest      bool
		outputPath  string
		lengthOnly  bool
		chunkSize   int
		configPath  string
		verbose     bool
		showHelp    bool
	)

	flagSet := pflag.NewFlagSet("partstream", pflag.ContinueOnError)
	flagSet.StringArrayVar(&fieldSpecs, "field", nil, "scalar field as name=value (repeatable)")
	flagSet.StringArrayVar(&attachSpecs, "attach", nil, "attachment as name=path[;filename=NAME][;type=MIME] (repeatable)")
	flagSet.StringArrayVar(&recipients, "encrypt-to", nil, "age-encrypt attachments to this public key (repeatable)")
	flagSet.StringVar(&boundary, "boundary", "", "fixed boundary token (default: random per run)")
	flagSet.StringVar(&compression, "compress", "", "compress attachments: none, zstd, or lz4")
	flagSet.BoolVar(&digest, "digest", false, "report each attachment's BLAKE3 digest on stderr")
	flagSet.StringVar(&outputPath, "output", "", "output file, - for stdout")
	flagSet.BoolVar(&lengthOnly, "length-only", false, "print the declared total length and exit without producing")
	flagSet.IntVar(&chunkSize, "chunk-size", 0, "body source chunk size in bytes")
	flagSet.StringVar(&configPath, "config", "", "path to partstream.yaml")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flagSet.BoolVarP(&showHelp, "help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("partstream")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if showHelp {
		fmt.Fprintln(os.Stderr, "usage: partstream [flags]")
		fmt.Fprintln(os.Stderr, flagSet.FlagUsages())
		return nil
	}

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if boundary != "" {
		cfg.Encode.Boundary = boundary
	}
	if compression != "" {
		cfg.Encode.Compression = compression
	}
	if digest {
		cfg.Encode.Digest = true
	}
	if chunkSize != 0 {
		cfg.Encode.ChunkSize = chunkSize
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	job, err := assemble(fieldSpecs, attachSpecs, recipients, cfg, logger)
	if err != nil {
		return err
	}

	var opts []multipart.Option
	if cfg.Encode.Boundary != "" {
		opts = append(opts, multipart.WithBoundary([]byte(cfg.Encode.Boundary)))
	}
	encoder, err := multipart.NewEncoder(flow.Runner{}, job.fields, opts...)
	if err != nil {
		job.closeAll()
		return err
	}

	if lengthOnly {
		defer job.closeAll()
		if encoder.Length() == multipart.UnknownLength {
			fmt.Println("unknown")
		} else {
			fmt.Println(encoder.Length())
		}
		return nil
	}

	logger.Debug("producing body",
		"fields", len(job.fields),
		"boundary", string(encoder.Boundary()),
		"declared_length", encoder.Length())

	output, closeOutput, err := openOutput(cfg.Output.Path)
	if err != nil {
		job.closeAll()
		return err
	}

	complete, err := encoder.Start(output)
	if err != nil {
		job.closeAll()
		closeOutput()
		return err
	}
	produceErr := <-complete
	if err := closeOutput(); err != nil && produceErr == nil {
		produceErr = err
	}
	if produceErr != nil {
		// The encoder closed the source it failed on; fields it never
		// reached still hold open sources. Sources it did close
		// tolerate the extra Close.
		job.closeAll()
		return produceErr
	}

	for _, report := range job.digests {
		fmt.Fprintf(os.Stderr, "%s  %s\n", report.source.SumHex(), report.name)
	}
	return nil
}

// loadConfig resolves the configuration: an explicit --config path
// wins, then PARTSTREAM_CONFIG, then built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("PARTSTREAM_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// digestReport pairs an attachment name with its digest-tracking
// source for after-the-fact reporting.
type digestReport struct {
	name   string
	source *multipart.DigestSource
}

// job holds the normalized fields plus the open attachment sources,
// so they can be released on paths where the encoder never runs.
type job struct {
	fields  multipart.Fields
	sources []multipart.BodySource
	digests []digestReport
}

// closeAll releases every attachment source. Used on exit paths where
// production never started; once production runs, the encoder owns
// closing.
func (j *job) closeAll() {
	for _, source := range j.sources {
		_ = source.Close()
	}
}

// assemble builds the normalized field list from parsed flag specs.
// Attachment sources are wrapped innermost to outermost as
// compression, encryption, then digest, so the digest covers the
// bytes that actually go over the wire.
func assemble(fieldSpecs, attachSpecs, recipients []string, cfg *config.Config, logger *slog.Logger) (*job, error) {
	var pairs []multipart.Pair
	for _, spec := range fieldSpecs {
		parsed, err := parseFieldSpec(spec)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, multipart.Pair{Name: parsed.name, Value: parsed.value})
	}

	assembled := &job{}
	for _, spec := range attachSpecs {
		parsed, err := parseAttachSpec(spec)
		if err != nil {
			assembled.closeAll()
			return nil, err
		}

		fileSource, err := multipart.FileSource(parsed.path)
		if err != nil {
			assembled.closeAll()
			return nil, err
		}
		fileSource.ChunkSize = cfg.Encode.ChunkSize

		var source multipart.BodySource = fileSource
		if cfg.Encode.Compression != "none" {
			codec, err := multipart.ParseCodec(cfg.Encode.Compression)
			if err != nil {
				_ = source.Close()
				assembled.closeAll()
				return nil, err
			}
			compressed, err := multipart.NewCompressSource(source, codec)
			if err != nil {
				_ = source.Close()
				assembled.closeAll()
				return nil, err
			}
			source = compressed
			logger.Debug("compressing attachment", "name", parsed.name, "codec", codec)
		}
		if len(recipients) > 0 {
			encrypted, err := multipart.NewEncryptSource(source, recipients)
			if err != nil {
				_ = source.Close()
				assembled.closeAll()
				return nil, err
			}
			source = encrypted
			logger.Debug("encrypting attachment", "name", parsed.name, "recipients", len(recipients))
		}
		if cfg.Encode.Digest {
			digesting := multipart.NewDigestSource(source)
			source = digesting
			assembled.digests = append(assembled.digests, digestReport{name: parsed.name, source: digesting})
		}

		assembled.sources = append(assembled.sources, source)
		pairs = append(pairs, multipart.Pair{Name: parsed.name, Value: multipart.Attachment{
			Filename:    parsed.filename,
			ContentType: parsed.contentType,
			Source:      source,
		}})
	}

	fields, err := multipart.FromPairs(pairs)
	if err != nil {
		assembled.closeAll()
		return nil, err
	}
	assembled.fields = fields
	return assembled, nil
}

// openOutput returns the consumer for the produced body and a close
// function. Stdout is never closed.
func openOutput(path string) (flow.Consumer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return file, file.Close, nil
}
