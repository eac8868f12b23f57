/*
Copyright (C) 2023  Carl-Philip Hänsch
Copyright (C) 2013  Pieter Kelchtermans (originally licensed unter WTFPL 2.0)

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// gridctl is a tiny interactive shell over one in-memory GridController,
// for manual poking at the grid engine without a collaboration server.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/shopspring/decimal"

	quadratic "github.com/BlacksmithSoftware/quadratic"
	"github.com/BlacksmithSoftware/quadratic/cellvalue"
	"github.com/BlacksmithSoftware/quadratic/config"
	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/pos"
)

const prompt = "\033[32mgrid>\033[0m "

func main() {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       ".gridctl-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	ctl := quadratic.New(config.Config{GapRequestThrottleSeconds: 5, HeartbeatTTLSeconds: 30})

	fmt.Println("gridctl — commands: sheets | addsheet NAME | movesheet NAME [BEFORE] | set SHEET X Y TEXT | get SHEET X Y | undo | redo | quit")

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			panic(err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !runCommand(ctl, line) {
			break
		}
	}
}

// runCommand executes one line and returns false when the shell should
// exit.
func runCommand(ctl *quadratic.GridController, line string) (keepGoing bool) {
	keepGoing = true
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("panic:", r)
		}
	}()

	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "exit":
		return false

	case "sheets":
		for _, s := range ctl.Grid.Sheets() {
			fmt.Printf("%s  %s  order=%s\n", s.ID, s.Name, s.Order)
		}

	case "addsheet":
		if len(fields) < 2 {
			fmt.Println("usage: addsheet NAME")
			return
		}
		ctl.AddSheet(fields[1])

	case "movesheet":
		if len(fields) < 2 {
			fmt.Println("usage: movesheet NAME [BEFORE]  (omit BEFORE to move to the end)")
			return
		}
		sheet, ok := ctl.Grid.SheetByName(fields[1])
		if !ok {
			fmt.Println("no such sheet:", fields[1])
			return
		}
		var before *grid.SheetId
		if len(fields) >= 3 {
			b, ok := ctl.Grid.SheetByName(fields[2])
			if !ok {
				fmt.Println("no such sheet:", fields[2])
				return
			}
			before = &b.ID
		}
		ctl.MoveSheetBefore(sheet.ID, before, nil)

	case "set":
		if len(fields) < 5 {
			fmt.Println("usage: set SHEET X Y TEXT...")
			return
		}
		sheet, ok := ctl.Grid.SheetByName(fields[1])
		if !ok {
			fmt.Println("no such sheet:", fields[1])
			return
		}
		x, _ := strconv.ParseInt(fields[2], 10, 64)
		y, _ := strconv.ParseInt(fields[3], 10, 64)
		text := strings.Join(fields[4:], " ")
		value := textOrNumber(text)
		arr := cellvalue.FromRowMajor(pos.NewArraySize(1, 1), []cellvalue.CellValue{value})
		rect := pos.NewRect(pos.Pos{X: x, Y: y}, pos.Pos{X: x, Y: y})
		ctl.SetCells(sheet.ID, rect, arr, nil)

	case "get":
		if len(fields) < 4 {
			fmt.Println("usage: get SHEET X Y")
			return
		}
		sheet, ok := ctl.Grid.SheetByName(fields[1])
		if !ok {
			fmt.Println("no such sheet:", fields[1])
			return
		}
		x, _ := strconv.ParseInt(fields[2], 10, 64)
		y, _ := strconv.ParseInt(fields[3], 10, 64)
		fmt.Println(sheet.GetPos(pos.Pos{X: x, Y: y}).String())

	case "undo":
		ctl.Undo(nil)

	case "redo":
		ctl.Redo(nil)

	default:
		fmt.Println("unknown command:", fields[0])
	}
}

func textOrNumber(s string) cellvalue.CellValue {
	if d, err := decimal.NewFromString(s); err == nil {
		return cellvalue.NewNumber(d)
	}
	return cellvalue.NewText(s)
}
