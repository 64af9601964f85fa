package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/CageChen/docforge/internal/compiler"
	"github.com/CageChen/docforge/internal/source"
)

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Compile markdown files to HTML",
	Long: `Compiles each file to a standalone .html page next to the source, or into
--out when set. Without arguments every document of the configured folders
is compiled.

With --ref, files are read from that git ref and paths are relative to the
repository root.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("style", "s", "", "Style preset (editorial, minimal, technical, warm, midnight)")
	buildCmd.Flags().String("accent", "", "Accent color override (#rgb or #rrggbb)")
	buildCmd.Flags().StringP("out", "o", "", "Output directory")
	buildCmd.Flags().String("title", "", "Title override")
	buildCmd.Flags().String("subtitle", "", "Subtitle override")
	buildCmd.Flags().String("author", "", "Author override")
	buildCmd.Flags().String("date", "", "Date override")
	buildCmd.Flags().Bool("server-highlight", false, "Highlight code at build time instead of in the browser")
	buildCmd.Flags().String("ref", "", "Read files from a git ref")
}

// buildJob compiles one document to one output file.
type buildJob struct {
	src  source.Source
	name string
	out  string
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := resolveStyle(cmd)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = cfg.OutDir
	}
	ref, _ := cmd.Flags().GetString("ref")

	var jobs []buildJob
	if len(args) > 0 {
		jobs, err = fileJobs(args, ref, outDir)
	} else {
		jobs, err = folderJobs(outDir)
	}
	if err != nil {
		return err
	}

	opts := compiler.Options{Style: s}
	opts.Title, _ = cmd.Flags().GetString("title")
	opts.Subtitle, _ = cmd.Flags().GetString("subtitle")
	opts.Author, _ = cmd.Flags().GetString("author")
	opts.Date, _ = cmd.Flags().GetString("date")
	opts.ServerHighlight, _ = cmd.Flags().GetBool("server-highlight")
	if !cmd.Flags().Changed("server-highlight") {
		opts.ServerHighlight = cfg.ServerHighlight
	}

	log.Debug().Int("files", len(jobs)).Str("style", s.Name).Msg("building")

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, job := range jobs {
		g.Go(func() error {
			res, err := job.run(opts)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s %s\n",
				successStyle.Render("✓"),
				job.out,
				dimStyle.Render(fmt.Sprintf("(%d words, %s)", res.Meta.WordCount, res.Meta.ReadingTime)))
			return nil
		})
	}
	return g.Wait()
}

func (j buildJob) run(opts compiler.Options) (*compiler.Result, error) {
	raw, err := j.src.Read(j.name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("input not found: %s", j.name)
		}
		return nil, fmt.Errorf("read %s: %w", j.name, err)
	}

	opts.FallbackTitle = strings.TrimSuffix(path.Base(j.name), path.Ext(j.name))
	res := compiler.Compile(string(raw), opts)

	if err := os.MkdirAll(filepath.Dir(j.out), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(j.out, []byte(res.HTML), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", j.out, err)
	}
	return res, nil
}

// fileJobs builds jobs for explicit arguments. Local inputs are checked up
// front so a missing file fails before anything is written.
func fileJobs(args []string, ref, outDir string) ([]buildJob, error) {
	jobs := make([]buildJob, 0, len(args))
	for _, arg := range args {
		if ref != "" {
			name := filepath.ToSlash(filepath.Clean(arg))
			jobs = append(jobs, buildJob{
				src:  source.NewGit(".", ref, source.Filter{}),
				name: name,
				out:  outputPath(outDir, filepath.Base(name), filepath.Base(name)),
			})
			continue
		}

		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("input not found: %s", arg)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("input is a directory: %s", arg)
		}
		jobs = append(jobs, buildJob{
			src:  source.NewLocal(filepath.Dir(abs), source.Filter{}),
			name: filepath.Base(abs),
			out:  outputPath(outDir, abs, filepath.Base(abs)),
		})
	}
	return jobs, nil
}

// folderJobs builds jobs for every document of the configured folders.
func folderJobs(outDir string) ([]buildJob, error) {
	if len(cfg.Folders) == 0 {
		return nil, errors.New("no input files given and no folders configured")
	}

	var jobs []buildJob
	for _, folder := range cfg.Folders {
		if folder.GitRef != "" && outDir == "" {
			return nil, fmt.Errorf("folder %s reads from git ref %s; set --out", folder.Alias, folder.GitRef)
		}
		src := cfg.Source(folder)
		names, err := src.List()
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", folder.Alias, err)
		}
		for _, name := range names {
			local := filepath.Join(folder.Path, filepath.FromSlash(name))
			rel := filepath.Join(folder.Alias, filepath.FromSlash(name))
			jobs = append(jobs, buildJob{src: src, name: name, out: outputPath(outDir, local, rel)})
		}
	}
	return jobs, nil
}

// outputPath places the .html next to the input, or at rel inside outDir.
func outputPath(outDir, input, rel string) string {
	target := input
	if outDir != "" {
		target = filepath.Join(outDir, rel)
	}
	return strings.TrimSuffix(target, filepath.Ext(target)) + ".html"
}
