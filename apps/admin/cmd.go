package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/category"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/progress"
)

const suggestCutoff = .6

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp                 = errors.New("help provided")
	errAborted              = errors.New("aborted")
	errConfirmationRequired = errors.New("not a terminal: pass -yes to confirm")
	errNoDatabase           = errors.New("migrate requires the postgres storage engine")

	commands = []string{"seed", "courses", "categories", "stats", "resetprogress", "migrate"}
)

type commandLine struct {
	courses    *course.Store
	ledger     *progress.Ledger
	categories *category.Registry
	db         *sql.DB // postgres storage engine only
	in         io.Reader
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  seed - restore the demonstration courses")
	_, _ = fmt.Fprintln(cli.out, "  courses [-search S] [-level L] [-category C] [-sort duration] - list courses")
	_, _ = fmt.Fprintln(cli.out, "  categories [-add NAME | -delete NAME] - list, add or delete categories")
	_, _ = fmt.Fprintln(cli.out, "  stats - print the learning statistics")
	_, _ = fmt.Fprintln(cli.out, "  resetprogress [-course ID] [-yes] - reset the progress of one course, or of every course")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	coursesCmd := cli.newFlagSet("courses")
	coursesSearch := coursesCmd.String("search", "", "Only courses whose title or description contains this text.")
	coursesLevel := coursesCmd.String("level", "", "Only courses of this level.")
	coursesCategory := coursesCmd.String("category", "", "Only courses of this category.")
	coursesSort := coursesCmd.String("sort", "", "Sort key: duration.")

	categoriesCmd := cli.newFlagSet("categories")
	categoriesAdd := categoriesCmd.String("add", "", "Name of the category to add.")
	categoriesDelete := categoriesCmd.String("delete", "", "Name of the category to delete.")

	resetProgressCmd := cli.newFlagSet("resetprogress")
	resetProgressCourse := resetProgressCmd.Int("course", 0, "ID of the course to reset. Every record is deleted when omitted.")
	resetProgressYes := resetProgressCmd.Bool("yes", false, "Do not ask for confirmation.")

	switch args[1] {
	case "seed":
		return cli.seed(ctx)

	case "courses":
		if err := coursesCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		filter := course.QueryFilter{
			Search:   *coursesSearch,
			Level:    *coursesLevel,
			Category: *coursesCategory,
			Sort:     *coursesSort,
		}
		filter.Clean()
		return cli.listCourses(filter)

	case "categories":
		if err := categoriesCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *categoriesAdd != "" && *categoriesDelete != "" {
			categoriesCmd.Usage()
			return errHelp
		}
		return cli.manageCategories(ctx, *categoriesAdd, *categoriesDelete)

	case "stats":
		return cli.printStats()

	case "resetprogress":
		if err := resetProgressCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetProgressCourse < 0 {
			resetProgressCmd.Usage()
			return errHelp
		}
		return cli.resetProgress(ctx, *resetProgressCourse, *resetProgressYes)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		if suggestion := core.ClosestMatch(args[1], commands, suggestCutoff); suggestion != "" {
			_, _ = fmt.Fprintf(cli.out, "unknown command %q; did you mean %q?\n", args[1], suggestion)
		} else {
			cli.printUsage()
		}
		return errHelp
	}
}

func (cli *commandLine) seed(ctx context.Context) error {
	if err := cli.courses.Seed(ctx); err != nil {
		return errors.Wrap(err, "seeding courses")
	}
	_, _ = fmt.Fprintf(cli.out, "%d courses restored\n", len(cli.courses.List()))
	return nil
}

func (cli *commandLine) listCourses(filter course.QueryFilter) error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tLEVEL\tCATEGORY\tDURATION\tLESSONS\tPROGRESS")
	for _, c := range cli.courses.Query(filter) {
		prog := "-"
		if cli.ledger.IsEnrolled(c.ID) {
			prog = fmt.Sprintf("%d%%", cli.ledger.Percentage(c.ID))
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n", c.ID, c.Title, c.Level, c.Category, c.Duration, len(c.Lessons), prog)
	}
	return w.Flush()
}

func (cli *commandLine) manageCategories(ctx context.Context, add, del string) error {
	switch {
	case add != "":
		name, err := cli.categories.Add(ctx, add)
		if err != nil {
			return errors.Wrapf(err, "adding %q", add)
		}
		_, _ = fmt.Fprintf(cli.out, "category %q added\n", name)
	case del != "":
		if err := cli.categories.Delete(ctx, del); err != nil {
			return errors.Wrapf(err, "deleting %q", del)
		}
		_, _ = fmt.Fprintf(cli.out, "category %q deleted\n", del)
	default:
		for _, name := range cli.categories.List() {
			_, _ = fmt.Fprintln(cli.out, name)
		}
	}
	return nil
}

func (cli *commandLine) printStats() error {
	stats := cli.ledger.Stats()
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Enrolled courses:\t%d\n", stats.TotalCoursesEnrolled)
	_, _ = fmt.Fprintf(w, "Completed courses:\t%d\n", stats.TotalCoursesCompleted)
	_, _ = fmt.Fprintf(w, "Completed lessons:\t%d\n", stats.TotalLessonsCompleted)
	_, _ = fmt.Fprintf(w, "Average progress:\t%d%%\n", stats.AverageProgress)

	recs := cli.ledger.AllEnrolled()
	sort.Slice(recs, func(i, j int) bool { return recs[i].CourseID < recs[j].CourseID })
	for _, rec := range recs {
		title := "(deleted course)"
		if c, err := cli.courses.Get(rec.CourseID); err == nil {
			title = c.Title
		}
		_, _ = fmt.Fprintf(w, "  %d\t%s\t%d%%\n", rec.CourseID, title, rec.CompletionPercentage)
	}
	return w.Flush()
}

// confirm asks question on a terminal; only "y" or "yes" confirms.
func (cli *commandLine) confirm(question string) error {
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return errConfirmationRequired
	}
	_, _ = fmt.Fprintf(cli.out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "reading answer")
	}
	switch core.CleanString(answer, true /* lower */) {
	case "y", "yes":
		return nil
	default:
		return errAborted
	}
}

func (cli *commandLine) resetProgress(ctx context.Context, courseID int, yes bool) error {
	if courseID == 0 {
		if !yes {
			if err := cli.confirm("Delete the progress of every course?"); err != nil {
				return err
			}
		}
		if err := cli.ledger.ResetAll(ctx); err != nil {
			return errors.Wrap(err, "resetting all progress")
		}
		_, _ = fmt.Fprintln(cli.out, "all progress deleted")
		return nil
	}

	if !cli.ledger.IsEnrolled(courseID) {
		return progress.ErrNotEnrolled
	}
	if !yes {
		question := fmt.Sprintf("Reset the progress of course %d?", courseID)
		if c, err := cli.courses.Get(courseID); err == nil {
			question = fmt.Sprintf("Reset the progress of %q?", strings.TrimSpace(c.Title))
		}
		if err := cli.confirm(question); err != nil {
			return err
		}
	}
	if _, err := cli.ledger.Reset(ctx, courseID); err != nil {
		return errors.Wrap(err, "resetting progress")
	}
	_, _ = fmt.Fprintf(cli.out, "progress of course %d reset\n", courseID)
	return nil
}
