package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/charmbracelet/log"
	"github.com/dylhunn/dragontoothmg"
)

func main() {
	fen := flag.String("fen", model.StartFEN, "position to count from")
	depth := flag.Int("depth", 4, "search depth in plies")
	divide := flag.Bool("divide", false, "print the count below each root move")
	verify := flag.Bool("verify", false, "cross-check every count against dragontoothmg")
	flag.Parse()
	if *depth < 1 {
		log.Fatal("depth must be at least 1", "depth", *depth)
	}

	board, err := model.ParseFEN(*fen)
	if err != nil {
		log.Fatal("parse fen", "err", err)
	}

	start := time.Now()
	if !*divide {
		nodes := model.Perft(board, *depth)
		elapsed := time.Since(start)
		fmt.Printf("perft(%d) = %d  (%s, %.0f nodes/s)\n", *depth, nodes, elapsed.Round(time.Millisecond), float64(nodes)/elapsed.Seconds())
		if *verify {
			check("root", nodes, oraclePerft(*fen, *depth))
		}
		return
	}

	counts := model.Divide(board, *depth)
	moves := make([]model.Move, 0, len(counts))
	for m := range counts {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })

	var oracle map[string]uint64
	if *verify {
		oracle = oracleDivide(*fen, *depth)
	}
	var total uint64
	for _, m := range moves {
		fmt.Printf("%s: %d\n", m, counts[m])
		total += counts[m]
		if *verify {
			check(m.String(), counts[m], oracle[m.String()])
			delete(oracle, m.String())
		}
	}
	for m, n := range oracle {
		log.Error("move missing", "move", m, "oracle", n)
	}
	fmt.Printf("\nmoves: %d\nnodes: %d\n", len(moves), total)
	if len(oracle) > 0 {
		os.Exit(1)
	}
}

func check(label string, got, want uint64) {
	if got != want {
		log.Error("count mismatch", "move", label, "got", got, "oracle", want)
		os.Exit(1)
	}
}

func oraclePerft(fen string, depth int) uint64 {
	b := dragontoothmg.ParseFen(fen)
	return walk(&b, depth)
}

func oracleDivide(fen string, depth int) map[string]uint64 {
	b := dragontoothmg.ParseFen(fen)
	out := make(map[string]uint64)
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		out[strings.ToLower(m.String())] = walk(&b, depth-1)
		unapply()
	}
	return out
}

func walk(b *dragontoothmg.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += walk(b, depth-1)
		unapply()
	}
	return nodes
}
