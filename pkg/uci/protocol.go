package uci

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/kestrelchess/kestrel/pkg/common"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrSearchRunning  = errors.New("search is running")
)

type Engine interface {
	Prepare()
	Clear()
	Search(ctx context.Context, searchParams common.SearchParams) common.SearchInfo
}

// Protocol speaks UCI. Commands are handled one at a time on the goroutine
// that calls Run; only the search runs elsewhere, and everything it reports
// is written from Run as well.
type Protocol struct {
	name         string
	author       string
	version      string
	options      []Option
	engine       Engine
	positions    []common.Position
	thinking     bool
	engineOutput chan searchOutput
	cancel       context.CancelFunc
	out          io.Writer
}

// searchOutput is a progress report, or the result when final is set.
type searchOutput struct {
	info  common.SearchInfo
	final bool
}

func New(name, author, version string, engine Engine, options []Option) *Protocol {
	var initPosition, err = common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    engine,
		options:   options,
		positions: []common.Position{initPosition},
	}
}

// Run reads commands from in until quit or end of input. A running search is
// stopped and its best move printed before Run returns.
func (uci *Protocol) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	uci.out = out
	var logger = zerolog.Ctx(ctx)
	var commands = make(chan string)
	var readErr = make(chan error, 1)

	go func() {
		defer close(commands)
		readErr <- readCommands(in, commands)
	}()

	for {
		select {
		case output := <-uci.engineOutput:
			if output.final {
				uci.searchFinished(output.info)
			} else {
				fmt.Fprintln(uci.out, searchInfoToUci(output.info))
			}
		case commandLine, ok := <-commands:
			if !ok {
				if uci.thinking {
					uci.cancel()
					var engineOutput = uci.engineOutput
					for output := range engineOutput {
						if output.final {
							uci.searchFinished(output.info)
						} else {
							fmt.Fprintln(uci.out, searchInfoToUci(output.info))
						}
					}
				}
				return <-readErr
			}
			logger.Debug().Str("command", commandLine).Msg("uci")
			if err := uci.handle(ctx, commandLine); err != nil {
				logger.Error().Err(err).Str("command", commandLine).Msg("uci command failed")
			}
		}
	}
}

func (uci *Protocol) searchFinished(searchResult common.SearchInfo) {
	if len(searchResult.MainLine) != 0 {
		fmt.Fprintf(uci.out, "bestmove %v\n", searchResult.MainLine[0])
	} else {
		fmt.Fprintln(uci.out, "bestmove 0000")
	}
	uci.thinking = false
	uci.cancel = nil
	uci.engineOutput = nil
}

func (uci *Protocol) handle(ctx context.Context, commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	if uci.thinking {
		if commandName == "stop" {
			uci.cancel()
			return nil
		}
		if commandName == "isready" {
			fmt.Fprintln(uci.out, "readyok")
			return nil
		}
		return fmt.Errorf("%v: %w", commandName, ErrSearchRunning)
	}

	var h func(fields []string) error

	switch commandName {
	case "uci":
		h = uci.uciCommand
	case "setoption":
		h = uci.setOptionCommand
	case "isready":
		h = uci.isReadyCommand
	case "position":
		h = uci.positionCommand
	case "go":
		h = func(fields []string) error {
			return uci.goCommand(ctx, fields)
		}
	case "ucinewgame":
		h = uci.uciNewGameCommand
	case "stop", "debug", "register", "ponderhit":
		return nil
	}

	if h == nil {
		return fmt.Errorf("%q: %w", commandName, ErrUnknownCommand)
	}

	return h(fields)
}

func (uci *Protocol) uciCommand(fields []string) error {
	fmt.Fprintf(uci.out, "id name %s %s\n", uci.name, uci.version)
	fmt.Fprintf(uci.out, "id author %s\n", uci.author)
	for _, option := range uci.options {
		fmt.Fprintln(uci.out, option.UciString())
	}
	fmt.Fprintln(uci.out, "uciok")
	return nil
}

// setoption name <name> value <value>, the name may contain spaces.
func (uci *Protocol) setOptionCommand(fields []string) error {
	var nameIndex = lo.IndexOf(fields, "name")
	var valueIndex = lo.IndexOf(fields, "value")
	if nameIndex != 0 || valueIndex < 2 || valueIndex == len(fields)-1 {
		return fmt.Errorf("invalid setoption arguments %q", strings.Join(fields, " "))
	}
	var name = strings.Join(fields[nameIndex+1:valueIndex], " ")
	var value = strings.Join(fields[valueIndex+1:], " ")
	var option, found = lo.Find(uci.options, func(option Option) bool {
		return strings.EqualFold(option.UciName(), name)
	})
	if !found {
		return fmt.Errorf("unknown option %q", name)
	}
	return option.Set(value)
}

func (uci *Protocol) isReadyCommand(fields []string) error {
	uci.engine.Prepare()
	fmt.Fprintln(uci.out, "readyok")
	return nil
}

func (uci *Protocol) positionCommand(fields []string) error {
	if len(fields) == 0 {
		return errors.New("position: missing arguments")
	}
	var args = fields
	var token = args[0]
	var fen string
	var movesIndex = lo.IndexOf(args, "moves")
	if token == "startpos" {
		fen = common.InitialPositionFen
	} else if token == "fen" {
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
		}
	} else {
		return fmt.Errorf("position: unknown token %q", token)
	}
	var p, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	var positions = []common.Position{p}
	if movesIndex >= 0 {
		for _, smove := range args[movesIndex+1:] {
			var last = &positions[len(positions)-1]
			var move, err = last.ParseMoveLAN(smove)
			if err != nil {
				return err
			}
			var child common.Position
			if !last.MakeMove(move, &child) {
				return fmt.Errorf("position: %v: %w", smove, common.ErrIllegalMove)
			}
			positions = append(positions, child)
		}
	}
	uci.positions = positions
	return nil
}

func (uci *Protocol) goCommand(ctx context.Context, fields []string) error {
	var limits, err = parseLimits(fields)
	if err != nil {
		return err
	}
	ctx, uci.cancel = context.WithCancel(ctx)
	uci.thinking = true
	var engineOutput = make(chan searchOutput)
	uci.engineOutput = engineOutput
	var positions = uci.positions
	go func() {
		defer close(engineOutput)
		var searchResult = uci.engine.Search(ctx, common.SearchParams{
			Positions: positions,
			Limits:    limits,
			Progress: func(si common.SearchInfo) {
				select {
				case engineOutput <- searchOutput{info: si}:
				case <-ctx.Done():
				}
			},
		})
		engineOutput <- searchOutput{info: searchResult, final: true}
	}()
	return nil
}

func (uci *Protocol) uciNewGameCommand(fields []string) error {
	uci.engine.Clear()
	return nil
}

func searchInfoToUci(si common.SearchInfo) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v", si.Depth)
	if si.Score.Mate != 0 {
		fmt.Fprintf(sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", si.Score.Centipawns)
	}
	var timeMs = si.Time.Milliseconds()
	var nps = si.Nodes * 1000 / (timeMs + 1)
	fmt.Fprintf(sb, " nodes %v time %v nps %v", si.Nodes, timeMs, nps)
	if len(si.MainLine) != 0 {
		sb.WriteString(" pv ")
		sb.WriteString(strings.Join(lo.Map(si.MainLine, func(m common.Move, _ int) string {
			return m.String()
		}), " "))
	}
	return sb.String()
}

func parseLimits(args []string) (result common.LimitsType, err error) {
	var intArgs = map[string]*int{
		"wtime":     &result.WhiteTime,
		"btime":     &result.BlackTime,
		"winc":      &result.WhiteIncrement,
		"binc":      &result.BlackIncrement,
		"movestogo": &result.MovesToGo,
		"depth":     &result.Depth,
		"nodes":     &result.Nodes,
		"mate":      &result.Mate,
		"movetime":  &result.MoveTime,
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			result.Ponder = true
		case "infinite":
			result.Infinite = true
		default:
			var value, ok = intArgs[args[i]]
			if !ok {
				return result, fmt.Errorf("go: unknown argument %q", args[i])
			}
			if i+1 >= len(args) {
				return result, fmt.Errorf("go: %v needs a value", args[i])
			}
			*value, err = strconv.Atoi(args[i+1])
			if err != nil {
				return result, fmt.Errorf("go: %v: %w", args[i], err)
			}
			i++
		}
	}
	return result, nil
}
