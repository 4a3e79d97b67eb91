package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/broyeztony/sheets/sheets"
	"github.com/broyeztony/sheets/storage"
)

const prompt = "sheets> "

func replCommand(args []string) int {
	help := false
	var loadPath string
	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			help = true
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", arg)
			return 2
		default:
			if loadPath != "" {
				fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", arg)
				return 2
			}
			loadPath = arg
		}
	}
	if help {
		replUsage()
		return 0
	}

	wb := sheets.NewWorkbook()
	if loadPath != "" {
		f, err := os.Open(loadPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", loadPath, err)
			return 1
		}
		loaded, err := storage.Load(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "load %s: %v\n", loadPath, err)
			return 1
		}
		wb = loaded
	} else {
		wb.NewSheet("Sheet1")
	}

	startREPL(os.Stdin, os.Stdout, wb)
	return 0
}

func replUsage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  sheets repl [file.json]\n")
	fmt.Fprintf(os.Stderr, "\nStarts an interactive session against an in-memory workbook.\n")
	fmt.Fprintf(os.Stderr, "Type :help for REPL commands.\n")
}

type replState struct {
	wb      *sheets.Workbook
	current string
}

func startREPL(in io.Reader, out io.Writer, wb *sheets.Workbook) {
	st := &replState{wb: wb}
	if names := wb.ListSheets(); len(names) > 0 {
		st.current = names[0]
	}

	var (
		scanner *bufio.Scanner
		tty     *ttyInput
	)
	if ti, ok := newTTYInput(in, out); ok {
		tty = ti
		defer tty.Close()
	} else {
		scanner = bufio.NewScanner(in)
	}

	fmt.Fprintf(out, "sheets REPL — workbook engine\n")
	fmt.Fprintf(out, "Type :help for commands, :quit to exit.\n\n")

	for {
		p := prompt
		if st.current != "" {
			p = fmt.Sprintf("sheets[%s]> ", st.current)
		}
		var (
			line string
			ok   bool
		)
		if tty != nil {
			line, ok = tty.readLine(p)
		} else {
			fmt.Fprint(out, p)
			ok = scanner.Scan()
			line = scanner.Text()
		}
		if !ok {
			fmt.Fprintln(out)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":q" || line == ":exit" {
			return
		}
		if err := dispatch(st, out, line); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func dispatch(st *replState, out io.Writer, line string) error {
	fields := strings.Fields(line)
	cmd := fields[0]
	switch cmd {
	case ":help", ":h":
		printHelp(out)
		return nil
	case ":sheets":
		for i, name := range st.wb.ListSheets() {
			marker := " "
			if name == st.current {
				marker = "*"
			}
			fmt.Fprintf(out, "%s#%d %s\n", marker, i, name)
		}
		return nil
	case ":use":
		if len(fields) != 2 {
			return fmt.Errorf("usage: :use <sheet>")
		}
		for _, name := range st.wb.ListSheets() {
			if name == fields[1] {
				st.current = name
				return nil
			}
		}
		return fmt.Errorf("no such sheet: %s", fields[1])
	case ":new-sheet":
		name := ""
		if len(fields) >= 2 {
			name = fields[1]
		}
		_, created, err := st.wb.NewSheet(name)
		if err != nil {
			return err
		}
		st.current = created
		fmt.Fprintf(out, "created %s\n", created)
		return nil
	case ":del-sheet":
		if len(fields) != 2 {
			return fmt.Errorf("usage: :del-sheet <sheet>")
		}
		if err := st.wb.DeleteSheet(fields[1]); err != nil {
			return err
		}
		if st.current == fields[1] {
			st.current = ""
			if names := st.wb.ListSheets(); len(names) > 0 {
				st.current = names[0]
			}
		}
		return nil
	case ":rename-sheet":
		if len(fields) != 3 {
			return fmt.Errorf("usage: :rename-sheet <old> <new>")
		}
		if err := st.wb.RenameSheet(fields[1], fields[2]); err != nil {
			return err
		}
		if st.current == fields[1] {
			st.current = fields[2]
		}
		return nil
	case ":move-sheet":
		if len(fields) != 3 {
			return fmt.Errorf("usage: :move-sheet <sheet> <index>")
		}
		idx, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("invalid index: %s", fields[2])
		}
		return st.wb.MoveSheet(fields[1], idx)
	case ":copy-sheet":
		if len(fields) != 2 {
			return fmt.Errorf("usage: :copy-sheet <sheet>")
		}
		_, created, err := st.wb.CopySheet(fields[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created %s\n", created)
		return nil
	case ":extent":
		sheet := st.current
		if len(fields) >= 2 {
			sheet = fields[1]
		}
		cols, rows, err := st.wb.SheetExtent(sheet)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%dx%d\n", cols, rows)
		return nil
	case ":save":
		if len(fields) != 2 {
			return fmt.Errorf("usage: :save <file.json>")
		}
		return saveWorkbook(st.wb, fields[1])
	case ":load":
		if len(fields) != 2 {
			return fmt.Errorf("usage: :load <file.json>")
		}
		loaded, err := loadWorkbook(fields[1])
		if err != nil {
			return err
		}
		st.wb = loaded
		if names := st.wb.ListSheets(); len(names) > 0 {
			st.current = names[0]
		} else {
			st.current = ""
		}
		return nil
	case ":get":
		if len(fields) != 2 {
			return fmt.Errorf("usage: :get <addr>")
		}
		if st.current == "" {
			return fmt.Errorf("no current sheet, use :use <sheet>")
		}
		v, err := st.wb.CellValue(st.current, fields[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v.Display())
		return nil
	default:
		return setCellCommand(st, line)
	}
}

// setCellCommand handles bare "<addr> <contents...>" lines, the common
// case of just entering data, e.g. "A1 = B1 + 1".
func setCellCommand(st *replState, line string) error {
	if st.current == "" {
		return fmt.Errorf("no current sheet, use :new-sheet or :use <sheet>")
	}
	fields := strings.SplitN(line, " ", 2)
	addr := fields[0]
	text := ""
	if len(fields) == 2 {
		text = fields[1]
	}
	return st.wb.SetCellContents(st.current, addr, &text)
}

func saveWorkbook(wb *sheets.Workbook, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return storage.Save(f, wb)
}

func loadWorkbook(path string) (*sheets.Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return storage.Load(f)
}

func printHelp(out io.Writer) {
	fmt.Fprintf(out, "Commands:\n")
	fmt.Fprintf(out, "  <addr> <contents>          set a cell, e.g. A1 =B1+1\n")
	fmt.Fprintf(out, "  <addr> (empty contents)    clear a cell, e.g. A1 \n")
	fmt.Fprintf(out, "  :get <addr>                print a cell's computed value\n")
	fmt.Fprintf(out, "  :sheets                    list sheets\n")
	fmt.Fprintf(out, "  :use <sheet>                switch the current sheet\n")
	fmt.Fprintf(out, "  :new-sheet [name]          add a sheet\n")
	fmt.Fprintf(out, "  :del-sheet <sheet>         delete a sheet\n")
	fmt.Fprintf(out, "  :rename-sheet <old> <new>  rename a sheet\n")
	fmt.Fprintf(out, "  :move-sheet <sheet> <idx>  reorder a sheet\n")
	fmt.Fprintf(out, "  :copy-sheet <sheet>        duplicate a sheet\n")
	fmt.Fprintf(out, "  :extent [sheet]            print a sheet's used range\n")
	fmt.Fprintf(out, "  :save <file.json>          save the workbook\n")
	fmt.Fprintf(out, "  :load <file.json>          replace the workbook\n")
	fmt.Fprintf(out, "  :help                      show this message\n")
	fmt.Fprintf(out, "  :quit                      exit\n")
}
