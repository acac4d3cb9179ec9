// Command quiz runs a civics practice quiz in the terminal. Open-text
// answers are graded by a running server's /api/evaluateQuiz endpoint.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	practicesession "github.com/civicsprep/backend/internal/domain/practice_session"
	"github.com/civicsprep/backend/internal/domain/question"
	"github.com/civicsprep/backend/internal/domain/questionbank"
	"github.com/civicsprep/backend/internal/grader"
	"github.com/civicsprep/backend/internal/service"
	"github.com/civicsprep/backend/internal/store"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// run executes the quiz and returns an exit code.
func run(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("quiz", flag.ContinueOnError)
	fs.SetOutput(stdout)
	mode := fs.String("mode", "sample", "quiz mode: sample or full")
	answerType := fs.String("answer-type", "easy", "easy (multiple choice) or hard (open text)")
	endpoint := fs.String("endpoint", "http://localhost:8080", "grading server base URL")
	seed := fs.Uint64("seed", 0, "random seed; 0 picks one")
	dbPath := fs.String("db", "", "SQLite file to keep progress in; empty keeps it in memory")
	sessionID := fs.String("session", "terminal", "session id to resume")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	bank, err := questionbank.Default()
	if err != nil {
		fmt.Fprintf(stdout, "question bank error: %v\n", err)
		return 1
	}

	var st store.SessionStore = store.NewMemory()
	if *dbPath != "" {
		db, err := store.NewSQLite(*dbPath)
		if err != nil {
			fmt.Fprintf(stdout, "database error: %v\n", err)
			return 1
		}
		defer db.Close()
		exists, err := db.SessionExists(ctx, *sessionID)
		if err == nil && !exists {
			err = db.CreateSession(ctx, *sessionID)
		}
		if err != nil {
			fmt.Fprintf(stdout, "database error: %v\n", err)
			return 1
		}
		st = db.Session(*sessionID)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}

	grading := service.NewGradingService(grader.NewHTTPGrader(*endpoint, nil), service.GradingOptions{}, logger)
	quiz := service.NewQuizService(bank, grading, rng, logger)

	params := practicesession.DefaultParams()
	params.Mode = practicesession.QuizMode(*mode)
	params.AnswerType = practicesession.AnswerType(*answerType)
	params = practicesession.ParseParams(params.Values()) // drops unknown values

	s, err := quiz.Start(ctx, st, *sessionID, params)
	if err != nil {
		fmt.Fprintf(stdout, "start error: %v\n", err)
		return 1
	}

	t := &terminal{in: bufio.NewScanner(stdin), out: stdout, quiz: quiz, st: st, s: s}
	return t.loop(ctx)
}

type terminal struct {
	in   *bufio.Scanner
	out  io.Writer
	quiz *service.QuizService
	st   store.SessionStore
	s    *practicesession.PracticeSession
}

func (t *terminal) loop(ctx context.Context) int {
	if t.s.Submitted {
		t.printResults()
		return 0
	}
	fmt.Fprintln(t.out, "Commands: :p previous, :n next, :s submit, :q quit. Empty input skips.")

	for {
		q := t.s.CurrentQuestion()
		t.printQuestion()
		line, ok := t.readLine()
		if !ok || line == ":q" {
			return t.save(ctx)
		}

		last := t.s.Current == len(t.s.Questions)-1
		switch line {
		case ":p":
			t.s.Previous()
		case ":n":
			t.s.Next()
		case ":s":
			if done := t.submit(ctx); done {
				return 0
			}
			continue
		default:
			if err := t.answer(q.ID(), line); err != nil {
				fmt.Fprintf(t.out, "  %v\n", err)
				continue
			}
			if err := t.s.KeyPress(q.ID()); err != nil {
				fmt.Fprintf(t.out, "  %v\n", err)
				continue
			}
		}
		if code := t.save(ctx); code != 0 {
			return code
		}
		if last && line != ":p" && line != ":n" {
			if done := t.submit(ctx); done {
				return 0
			}
		}
	}
}

func (t *terminal) readLine() (string, bool) {
	fmt.Fprint(t.out, "> ")
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

func (t *terminal) printQuestion() {
	q := t.s.CurrentQuestion()
	fmt.Fprintf(t.out, "\nQuestion %d of %d: %s\n", t.s.Current+1, len(t.s.Questions), q.Text())
	if mode, ok := q.MultipleChoiceMode(); ok && t.s.Params.MultipleChoice() {
		if mode.SelectionRule == question.MultipleCorrect {
			fmt.Fprintln(t.out, "  (select all that apply, e.g. 1,3)")
		}
		for i, c := range t.s.Rendered[q.ID()] {
			fmt.Fprintf(t.out, "  %d. %s\n", i+1, c.Text)
		}
	}
}

// answer records line for question id. Empty input leaves the answer unset
// so KeyPress treats it as a skip.
func (t *terminal) answer(id, line string) error {
	if line == "" {
		return nil
	}
	if !t.s.Params.MultipleChoice() {
		suggestion, err := t.s.SetText(id, line)
		if err == nil && suggestion != "" {
			fmt.Fprintf(t.out, "  (did you mean %q?)\n", suggestion)
		}
		return err
	}

	rendered := t.s.Rendered[id]
	for _, field := range strings.Split(line, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 1 || n > len(rendered) {
			return fmt.Errorf("enter a number between 1 and %d", len(rendered))
		}
		if err := t.s.SelectChoice(id, rendered[n-1].Text); err != nil {
			return err
		}
	}
	return nil
}

func (t *terminal) submit(ctx context.Context) bool {
	fmt.Fprintln(t.out, "\nGrading...")
	err := t.quiz.Evaluate(ctx, t.st, t.s)
	if service.IsRetryable(err) {
		fmt.Fprintln(t.out, "Failed to evaluate quiz. Please try again with :s.")
		return false
	}
	if err != nil {
		fmt.Fprintf(t.out, "evaluation error: %v\n", err)
		return false
	}
	t.printResults()
	return true
}

func (t *terminal) printResults() {
	fmt.Fprintln(t.out, "\nResults:")
	for i, q := range t.s.Questions {
		r := t.s.Results[q.ID()]
		mark := "✗"
		if r.IsCorrect {
			mark = "✓"
		}
		fmt.Fprintf(t.out, "%2d. %s %s\n", i+1, mark, q.Text())
		if !r.IsCorrect {
			fmt.Fprintf(t.out, "      accepted: %s\n", strings.Join(q.CorrectAnswers(), "; "))
		}
		if r.Explanation != "" {
			fmt.Fprintf(t.out, "      %s\n", r.Explanation)
		}
	}
	fmt.Fprintf(t.out, "\nScore: %.0f%%\n", t.s.Score)
}

func (t *terminal) save(ctx context.Context) int {
	if err := t.quiz.Save(ctx, t.st, t.s); err != nil {
		fmt.Fprintf(t.out, "save error: %v\n", err)
		return 1
	}
	return 0
}
