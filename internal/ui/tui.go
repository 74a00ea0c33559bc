package ui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	wrds "github.com/wrds-tools/wrds-go"
)

type uiState struct {
	ctx       context.Context
	conn      *wrds.Conn
	label     string
	app       *tview.Application
	pages     *tview.Pages
	libraries *tview.List
	tables    *tview.List

	result   *tview.Table
	query    *tview.InputField
	status   *tview.TextView
	lastRows *wrds.QueryResult
}

// Run starts the interactive explorer on an open connection. The caller
// keeps ownership of the connection.
func Run(ctx context.Context, conn *wrds.Conn, label string) error {
	state := &uiState{
		ctx:   ctx,
		conn:  conn,
		label: label, // e.g. user@host
		app:   tview.NewApplication(),
	}

	state.setupTheme()
	root := state.buildLayout()

	state.app.
		SetRoot(root, true).
		EnableMouse(true)

	// initial focus on the library pane
	state.app.SetFocus(state.libraries)

	// Global keybindings – all stay on the UI goroutine.
	state.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		frontName, _ := state.pages.GetFrontPage()
		focus := state.app.GetFocus()

		// When an overlay is open, ESC/Enter/Ctrl+Q/Ctrl+/ close it.
		if frontName == "rowDetail" || frontName == "help" {
			switch {
			case ev.Key() == tcell.KeyEsc,
				ev.Key() == tcell.KeyEnter,
				isCtrlKey(ev, tcell.KeyCtrlQ, 'q'),
				isCtrlKey(ev, 0, '/'):
				state.pages.RemovePage(frontName)
				state.app.SetFocus(state.result)
				return nil
			}
			return ev
		}

		// Vim-style pane navigation (Ctrl+h/j/k/l)
		switch {
		case isCtrlKey(ev, tcell.KeyCtrlH, 'h'): // left
			state.app.SetFocus(state.libraries)
			return nil
		case isCtrlKey(ev, tcell.KeyCtrlL, 'l'): // right
			state.app.SetFocus(state.result)
			return nil
		case isCtrlKey(ev, tcell.KeyCtrlJ, 'j'): // down
			state.app.SetFocus(state.query)
			return nil
		case isCtrlKey(ev, tcell.KeyCtrlK, 'k'): // up
			state.app.SetFocus(state.tables)
			return nil
		}

		switch {
		// Quit: Ctrl+Q or Ctrl+C
		case isCtrlKey(ev, tcell.KeyCtrlQ, 'q') || ev.Key() == tcell.KeyCtrlC:
			state.app.Stop()
			return nil

		// Focus query: Ctrl+:
		case isCtrlKey(ev, 0, ':') && focus != state.query:
			state.app.SetFocus(state.query)
			return nil

		// Reload libraries: Ctrl+R
		case isCtrlKey(ev, tcell.KeyCtrlR, 'r'):
			_ = state.loadLibraries()
			return nil

		// Help: Ctrl+/
		case isCtrlKey(ev, 0, '/'):
			state.toggleHelp()
			return nil

		// Row expand: Enter while focused on results
		case ev.Key() == tcell.KeyEnter && focus == state.result:
			state.expandCurrentRow()
			return nil
		}

		// Let widgets handle the key normally.
		return ev
	})

	// Initial data load (synchronous, safe before Run).
	_ = state.loadLibraries()

	return state.app.Run()
}

// Catppuccin Mocha theme, borders #595B72, titles cyan #89DCEB.
func (s *uiState) setupTheme() {
	tview.Styles.PrimitiveBackgroundColor = tcell.NewRGBColor(30, 30, 46)    // base
	tview.Styles.ContrastBackgroundColor = tcell.NewRGBColor(49, 50, 68)     // surface0
	tview.Styles.MoreContrastBackgroundColor = tcell.NewRGBColor(69, 71, 90) // surface1

	// all borders (frames, table borders, separators)
	tview.Styles.BorderColor = tcell.NewRGBColor(89, 91, 114)

	tview.Styles.PrimaryTextColor = tcell.NewRGBColor(205, 214, 244) // text
	tview.Styles.SecondaryTextColor = tcell.NewRGBColor(166, 173, 200)
	tview.Styles.TertiaryTextColor = tcell.NewRGBColor(147, 153, 178)

	// section titles cyan
	tview.Styles.TitleColor = tcell.NewRGBColor(137, 220, 235)

	// graphics (lines / separators) same as border color
	tview.Styles.GraphicsColor = tcell.NewRGBColor(89, 91, 114)
}

func (s *uiState) buildLayout() tview.Primitive {
	// Connection header: "WRDS <label>" with accent color.
	header := tview.NewTextView().
		SetTextAlign(tview.AlignLeft).
		SetDynamicColors(true).
		SetText(fmt.Sprintf("[::b]WRDS[-]  [#C0A1F0]%s[-]", s.label))

	header.SetBorder(true)
	header.SetBorderPadding(0, 0, 1, 1)
	header.SetTitle(" Connection ")

	// LIBRARY LIST
	s.libraries = tview.NewList().
		ShowSecondaryText(false)
	s.libraries.SetBorder(true)
	s.libraries.SetTitle(" Libraries ")
	s.libraries.SetDoneFunc(func() {
		// ESC in list -> focus query.
		s.app.SetFocus(s.query)
	})
	s.libraries.SetSelectedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		if mainText != "" {
			s.loadTables(mainText)
		}
	})

	// TABLE LIST
	s.tables = tview.NewList().
		ShowSecondaryText(false)
	s.tables.SetBorder(true)
	s.tables.SetTitle(" Tables ")
	s.tables.SetDoneFunc(func() {
		s.app.SetFocus(s.libraries)
	})
	s.tables.SetSelectedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		library := s.currentLibrary()
		if library == "" || mainText == "" {
			return
		}
		sql := fmt.Sprintf("SELECT * FROM %s.%s LIMIT 100", library, mainText)
		s.query.SetText(sql)
		s.runQuery(sql) // synchronous
	})

	// HELP BOX under the lists, no title.
	helpBox := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft).
		SetText(" Help: Ctrl+?")
	helpBox.SetBorder(true)

	// RESULT TABLE
	s.result = tview.NewTable().
		SetBorders(true). // show grid
		SetFixed(1, 0)
	s.result.SetBorder(true)
	s.result.SetTitle(" Results ")
	s.result.SetSelectable(true, true) // move across cells

	// QUERY INPUT
	s.query = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0) // grow with window
	s.query.SetBorder(true)
	s.query.SetTitle(" Query (Enter to run) ")
	s.query.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			sql := strings.TrimSpace(s.query.GetText())
			if sql == "" {
				return
			}
			s.runQuery(sql) // synchronous
		}
	})

	// STATUS BAR
	s.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	s.status.SetBorder(true)
	s.status.SetTitle(" Status ")

	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 3, 0, false).
		AddItem(s.libraries, 0, 1, true).
		AddItem(s.tables, 0, 1, false).
		AddItem(helpBox, 3, 0, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.result, 0, 1, false).
		AddItem(s.query, 3, 0, false).
		AddItem(s.status, 3, 0, false)

	content := tview.NewFlex().
		AddItem(left, 34, 0, true).
		AddItem(main, 0, 1, false)

	s.pages = tview.NewPages().
		AddPage("main", content, true, true)

	return s.pages
}

func (s *uiState) currentLibrary() string {
	idx := s.libraries.GetCurrentItem()
	if idx < 0 || idx >= s.libraries.GetItemCount() {
		return ""
	}
	name, _ := s.libraries.GetItemText(idx)
	return name
}

func (s *uiState) loadLibraries() error {
	s.setStatus("[yellow]Loading libraries…[-]")

	mapping, err := wrds.MapLibraries(s.ctx, s.conn)
	if err != nil {
		s.setStatus(fmt.Sprintf("[red]Error loading libraries: %v[-]", err))
		return err
	}

	s.libraries.Clear()
	s.tables.Clear()
	for _, lib := range mapping.Libraries {
		if lib != "" {
			s.libraries.AddItem(lib, "", 0, nil)
		}
	}

	if s.libraries.GetItemCount() == 0 {
		s.setStatus("[gray]No libraries visible for this role.[-]")
	} else {
		s.libraries.SetCurrentItem(0)
		s.setStatus("[green]Libraries loaded. Enter opens a library's tables.[-]")
	}

	return nil
}

func (s *uiState) loadTables(library string) {
	s.setStatus(fmt.Sprintf("[yellow]Loading tables in %s…[-]", library))

	tables, err := wrds.ListTables(s.ctx, s.conn, library)
	if err != nil {
		s.setStatus(fmt.Sprintf("[red]Error loading tables: %v[-]", err))
		return
	}

	s.tables.Clear()
	for _, t := range tables {
		if t.Name != "" {
			s.tables.AddItem(t.Name, "", 0, nil)
		}
	}

	if s.tables.GetItemCount() == 0 {
		s.setStatus(fmt.Sprintf("[gray]No tables in %s.[-]", library))
		return
	}
	s.tables.SetCurrentItem(0)
	s.app.SetFocus(s.tables)
	s.setStatus(fmt.Sprintf("[green]%d tables in %s. Enter previews a table.[-]", s.tables.GetItemCount(), library))
}

func (s *uiState) runQuery(sql string) {
	start := time.Now()
	s.setStatus(fmt.Sprintf("[yellow]Running query…[-] [gray]%s[-]", truncateInline(sql, 80)))

	res, err := wrds.RawSQL(s.ctx, s.conn, sql)
	if err != nil {
		s.setStatus(fmt.Sprintf("[red]Query error:[-] %v", err))
		return
	}

	elapsed := time.Since(start)
	s.renderResult(res)
	s.setStatus(fmt.Sprintf(
		"[green]Query OK[-] [gray](%d rows, %s)[-]",
		res.NumRows(),
		elapsed.Truncate(time.Millisecond),
	))
}

func (s *uiState) renderResult(res *wrds.QueryResult) {
	s.result.Clear()
	s.lastRows = res

	if len(res.Columns) == 0 {
		return
	}

	const maxColWidth = 40

	colCount := len(res.Columns)
	colWidths := make([]int, colCount)

	// base width from headers
	for i, col := range res.Columns {
		colWidths[i] = runeLen(col)
		if colWidths[i] > maxColWidth {
			colWidths[i] = maxColWidth
		}
	}

	// refine widths from data (up to some rows)
	rowLimit := res.NumRows()
	if rowLimit > 200 {
		rowLimit = 200
	}
	for c, col := range res.Columns {
		for r := 0; r < rowLimit; r++ {
			text := formatValue(res.Values[col][r])
			l := runeLen(text)
			if l > maxColWidth {
				l = maxColWidth
			}
			if l > colWidths[c] {
				colWidths[c] = l
			}
		}
	}

	// header (no special background color – use base theme)
	for colIdx, col := range res.Columns {
		headerText := padRight(col, colWidths[colIdx])
		cell := tview.NewTableCell(headerText).
			SetAlign(tview.AlignLeft).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold)
		s.result.SetCell(0, colIdx, cell)
	}

	// data
	for rIdx := 0; rIdx < res.NumRows(); rIdx++ {
		for cIdx, col := range res.Columns {
			text := formatValue(res.Values[col][rIdx])

			truncated := text
			if runeLen(truncated) > maxColWidth {
				truncated = truncateRunes(truncated, maxColWidth-1) + "…"
			}
			display := padRight(truncated, colWidths[cIdx])

			align := tview.AlignLeft
			if looksNumeric(text) {
				align = tview.AlignRight
			}

			cell := tview.NewTableCell(display).
				SetAlign(align).
				SetSelectable(true)

			// zebra striping on a slightly darker background (mantle: #181825)
			if rIdx%2 == 1 {
				cell.SetBackgroundColor(tcell.NewRGBColor(24, 24, 37))
			}

			s.result.SetCell(rIdx+1, cIdx, cell)
		}
	}

	s.result.ScrollToBeginning()
}

func (s *uiState) expandCurrentRow() {
	if s.lastRows == nil || s.lastRows.NumRows() == 0 {
		return
	}

	rowIdx, _ := s.result.GetSelection()
	if rowIdx <= 0 {
		return // header
	}
	rowIdx-- // adjust for header row

	if rowIdx < 0 || rowIdx >= s.lastRows.NumRows() {
		return
	}

	var b strings.Builder
	b.Grow(256)

	for _, col := range s.lastRows.Columns {
		b.WriteString(col)
		b.WriteString(":\n")

		val := formatValue(s.lastRows.Values[col][rowIdx])
		if val == "" {
			val = "NULL"
		}
		b.WriteString("  ")
		b.WriteString(val)
		b.WriteString("\n\n")
	}

	text := tview.NewTextView().
		SetText(b.String()).
		SetScrollable(true).
		SetWrap(true).
		SetWordWrap(true)
	text.SetDynamicColors(false)

	header := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText(" Row detail (ESC/Enter/Ctrl+Q/Ctrl+/ to close) ")
	header.SetDynamicColors(false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 3, 0, false).
		AddItem(text, 0, 1, true)

	frame := tview.NewFrame(layout).
		SetBorders(0, 0, 1, 1, 1, 1)
	frame.SetBorder(true).
		SetTitle(" Row detail ").
		SetTitleAlign(tview.AlignLeft)

	// center-ish overlay
	modal := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(
			tview.NewFlex().SetDirection(tview.FlexRow).
				AddItem(nil, 0, 1, false).
				AddItem(frame, 0, 3, true).
				AddItem(nil, 0, 1, false),
			0, 3, true,
		).
		AddItem(nil, 0, 1, false)

	s.pages.AddAndSwitchToPage("rowDetail", modal, true)
	s.app.SetFocus(text)
}

func (s *uiState) toggleHelp() {
	frontName, _ := s.pages.GetFrontPage()
	if frontName == "help" {
		s.pages.RemovePage("help")
		s.app.SetFocus(s.result)
		return
	}
	s.showHelp()
}

func (s *uiState) showHelp() {
	const helpText = `
[::b]Global[-]
  Ctrl+Q / Ctrl+C   Quit
  Ctrl+/            Toggle this help

[::b]Navigation[-]
  ↑ / ↓             Move in lists/tables
  Ctrl+h            Focus libraries (left)
  Ctrl+k            Focus tables
  Ctrl+l            Focus results (right)
  Ctrl+j            Focus query (down)

[::b]Libraries pane[-]
  Enter             List the library's tables

[::b]Tables pane[-]
  Enter             SELECT * FROM <library>.<table> LIMIT 100

[::b]Results pane[-]
  Enter             Expand current row

[::b]Query input[-]
  Enter             Run SQL in the input
  Ctrl+:            Focus query from anywhere

[::b]Notes[-]
  Mouse support is enabled (scroll, click).
  Overlays close with ESC, Enter, Ctrl+Q, or Ctrl+/.`

	txt := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft).
		SetScrollable(true).
		SetWrap(true).
		SetWordWrap(true)
	txt.SetText(helpText)

	header := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText("[::b]wrds explorer help (ESC/Enter/Ctrl+Q/Ctrl+/ to close)[-]")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 3, 0, false).
		AddItem(txt, 0, 1, true)

	frame := tview.NewFrame(layout).
		SetBorders(0, 0, 1, 1, 1, 1)
	frame.SetBorder(true).
		SetTitle(" Help ").
		SetTitleAlign(tview.AlignLeft)

	modal := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(
			tview.NewFlex().SetDirection(tview.FlexRow).
				AddItem(nil, 0, 1, false).
				AddItem(frame, 0, 3, true).
				AddItem(nil, 0, 1, false),
			0, 3, true,
		).
		AddItem(nil, 0, 1, false)

	s.pages.AddAndSwitchToPage("help", modal, true)
	s.app.SetFocus(txt)
}

// setStatus updates the status bar text.
func (s *uiState) setStatus(msg string) {
	if s.status == nil {
		return
	}
	s.status.SetText(msg)
}

// isCtrlKey checks for Ctrl+<ch>, handling both KeyCtrlX and rune+modifier.
func isCtrlKey(ev *tcell.EventKey, key tcell.Key, ch rune) bool {
	if key != 0 && ev.Key() == key {
		return true
	}
	return ev.Rune() == ch && (ev.Modifiers()&tcell.ModCtrl) != 0
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	switch val := v.(type) {
	case []byte:
		if len(val) > 256 {
			return fmt.Sprintf("[blob %d bytes]", len(val))
		}
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

func truncateInline(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// runeLen counts runes so we don’t under/over-pad UTF-8 text.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if runeLen(s) <= n {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for _, r := range s {
		if i >= n {
			break
		}
		b.WriteRune(r)
		i++
	}
	return b.String()
}

func padRight(s string, width int) string {
	rl := runeLen(s)
	if rl >= width {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + (width - rl))
	b.WriteString(s)
	for i := 0; i < width-rl; i++ {
		b.WriteRune(' ')
	}
	return b.String()
}

func looksNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	hasDigit := false
	for i, r := range s {
		if r == '+' || r == '-' {
			if i != 0 {
				return false
			}
			continue
		}
		if r == '.' || r == ',' {
			continue
		}
		if unicode.IsDigit(r) {
			hasDigit = true
			continue
		}
		return false
	}
	return hasDigit
}
