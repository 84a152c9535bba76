// Command chessboard-diff reads "FROM|TO" placement pairs from stdin and
// prints the transition between each pair, separated by blank lines.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/logx"
)

var (
	matcherName = flag.String("matcher", "greedy", "greedy or mincost")
	level       = flag.String("level", "warn", "logger level")
)

func main() {
	flag.Parse()
	logger := logx.NewWriter(os.Stderr, *level, "console")
	defer logger.Sync()

	m, err := board.ParseMatcher(*matcherName)
	if err != nil {
		logger.Error("bad flag", zap.Error(err))
		os.Exit(2)
	}

	failed, err := run(os.Stdin, os.Stdout, m, logger)
	if err != nil {
		logger.Error("read input", zap.Error(err))
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(2)
	}
}

// run processes every line of r and returns how many lines were rejected.
func run(r io.Reader, w io.Writer, m board.Matcher, logger *zap.Logger) (int, error) {
	failed := 0
	first := true
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		from, to, ok := strings.Cut(line, "|")
		if !ok {
			logger.Warn("expected FROM|TO", zap.Int("line", n))
			failed++
			continue
		}

		pos, err := board.FromFEN(strings.TrimSpace(from))
		if err != nil {
			logger.Warn("bad FROM placement", zap.Int("line", n), zap.Error(err))
			failed++
			continue
		}
		tr, err := pos.CalculateTransitionWith(strings.TrimSpace(to), m)
		if err != nil {
			logger.Warn("bad TO placement", zap.Int("line", n), zap.Error(err))
			failed++
			continue
		}

		if !first {
			fmt.Fprintln(w)
		}
		first = false
		for _, l := range tr.Lines() {
			fmt.Fprintln(w, l)
		}
		logger.Debug("diffed", zap.Int("line", n), zap.Int("changes", len(tr.Lines())))
	}
	return failed, scanner.Err()
}
