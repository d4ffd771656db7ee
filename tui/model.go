// Package tui is the terminal frontend: the snake game while the board loads, then the board.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beka-birhanu/wired/domain"
	"github.com/beka-birhanu/wired/game"
	"github.com/beka-birhanu/wired/game/snake"
	"github.com/beka-birhanu/wired/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultRequestTimeout = 15 * time.Second

	dateLayout = "02/01/06"
)

var (
	ErrNilBoard   = errors.New("board is nil")
	ErrNilSession = errors.New("snake session is nil")
)

type phase int

const (
	phaseLoading phase = iota
	phaseBoard
)

type field int

const (
	fieldTitle field = iota
	fieldDescription
)

type (
	frameMsg        snake.Frame
	framesClosedMsg struct{}
	loadedMsg       struct{}
	// doneMsg reports a finished remote operation.
	doneMsg struct{ err error }
)

// Config holds the dependencies of a Model.
type Config struct {
	Board          *service.Board
	Session        *game.Session
	RequestTimeout time.Duration // Zero means DefaultRequestTimeout.
}

// Model is the bubbletea model of one terminal viewer.
type Model struct {
	board       *service.Board
	session     *game.Session
	timeout     time.Duration
	keys        keyMap
	help        help.Model
	phase       phase
	frame       snake.Frame
	state       service.BoardState
	notice      string
	selected    int
	focus       field
	title       textinput.Model
	description textarea.Model
	visitors    int
}

// New creates a Model in the loading phase. The board and the session are expected to be
// running already; the model only listens to them.
func New(c Config) (Model, error) {
	if c.Board == nil {
		return Model{}, ErrNilBoard
	}
	if c.Session == nil {
		return Model{}, ErrNilSession
	}

	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	title := textinput.New()
	title.CharLimit = domain.MaxTitleLength
	title.Width = cardWidth
	title.Prompt = "> "
	title.Placeholder = "Digite o título da transmissão..."

	description := textarea.New()
	description.CharLimit = domain.MaxDescriptionLength
	description.ShowLineNumbers = false
	description.SetWidth(cardWidth)
	description.SetHeight(4)
	description.Placeholder = "Transmita sua mensagem para a rede..."

	return Model{
		board:       c.Board,
		session:     c.Session,
		timeout:     timeout,
		keys:        newKeyMap(),
		help:        help.New(),
		frame:       c.Session.Snapshot(),
		state:       c.Board.State(),
		title:       title,
		description: description,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForFrame(m.session.Frames()),
		waitForLoaded(m.board),
	)
}

func waitForFrame(frames <-chan snake.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return framesClosedMsg{}
		}
		return frameMsg(f)
	}
}

func waitForLoaded(b *service.Board) tea.Cmd {
	return func() tea.Msg {
		<-b.Loaded()
		return loadedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		m.frame = snake.Frame(msg)
		return m, waitForFrame(m.session.Frames())

	case framesClosedMsg:
		return m, nil

	case loadedMsg:
		m.session.Stop()
		m.phase = phaseBoard
		m.visitors = m.board.Visitors()
		m.sync()
		return m, nil

	case doneMsg:
		m.sync()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.phase == phaseLoading {
			return m.updateLoading(msg)
		}
		if m.state.ShowForm {
			return m.updateForm(msg)
		}
		return m.updateBoard(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Play):
		m.session.Input(snake.ParseKey(msg.String()))
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		m.board.ToggleForm()
		m.sync()
		return m, m.focusField(fieldTitle)

	case key.Matches(msg, m.keys.Edit):
		note, ok := m.selectedNote()
		if !ok || m.board.StartEdit(note.ID) != nil {
			return m, nil
		}
		m.sync()
		m.title.SetValue(m.state.Form.Title)
		m.description.SetValue(m.state.Form.Description)
		return m, m.focusField(fieldTitle)

	case key.Matches(msg, m.keys.Delete):
		note, ok := m.selectedNote()
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) error {
			return m.board.Delete(ctx, note.ID)
		})

	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(m.board.Refresh)

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.state.Notes)-1 {
			m.selected++
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.board.CancelEdit()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if m.focus == fieldTitle {
			return m, m.focusField(fieldDescription)
		}
		return m, m.focusField(fieldTitle)

	case key.Matches(msg, m.keys.Submit):
		in := domain.NoteInput{Title: m.title.Value(), Description: m.description.Value()}
		m.board.SetForm(in)
		return m, m.run(func(ctx context.Context) error {
			return m.board.Submit(ctx, in)
		})
	}
	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == fieldTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd
}

// run performs op off the update loop and reports back with a doneMsg.
func (m Model) run(op func(context.Context) error) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return doneMsg{err: op(ctx)}
	}
}

// sync copies the board state into the model and clears the inputs once the form is closed.
func (m *Model) sync() {
	m.state = m.board.State()
	m.notice = m.board.ConsumeNotice()

	if m.selected >= len(m.state.Notes) {
		m.selected = max(len(m.state.Notes)-1, 0)
	}
	if !m.state.ShowForm {
		m.title.Reset()
		m.description.Reset()
		m.title.Blur()
		m.description.Blur()
		m.focus = fieldTitle
	}
}

func (m *Model) focusField(f field) tea.Cmd {
	m.focus = f
	if f == fieldTitle {
		m.description.Blur()
		return m.title.Focus()
	}
	m.title.Blur()
	return m.description.Focus()
}

func (m Model) selectedNote() (domain.Note, bool) {
	if m.selected < 0 || m.selected >= len(m.state.Notes) {
		return domain.Note{}, false
	}
	return m.state.Notes[m.selected], true
}

func (m Model) View() string {
	if m.phase == phaseLoading {
		return appStyle.Render(m.loadingView())
	}
	return appStyle.Render(m.boardView())
}

func (m Model) loadingView() string {
	status := "PRESSIONE ESPAÇO PARA INICIAR"
	if m.frame.Running {
		status = "JOGANDO"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("◉ ◉ ◉  CARREGANDO CIBERESPAÇO..."))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Bold(true).Render("ACESSANDO REDE NEURAL..."))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("🐍 CYBER COBRA 2000 🐍"))
	b.WriteString("\n")
	b.WriteString(textStyle.Render(fmt.Sprintf("Pontos: %d | %s", m.frame.Score, status)))
	b.WriteString("\n")
	b.WriteString(terminalStyle.Render(renderGrid(m.frame)))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Use as setas para mover • Espaço para iniciar"))
	return b.String()
}

func renderGrid(f snake.Frame) string {
	rows := make([]string, 0, snake.GridSize)
	for y := 0; y < snake.GridSize; y++ {
		var row strings.Builder
		for x := 0; x < snake.GridSize; x++ {
			switch f.At(x, y) {
			case snake.CellSnake | snake.CellFood:
				row.WriteString(snakeCellStyle.Render("█"))
				row.WriteString(foodCellStyle.Render("●"))
			case snake.CellSnake:
				row.WriteString(snakeCellStyle.Render("██"))
			case snake.CellFood:
				row.WriteString(foodCellStyle.Render("●"))
				row.WriteString(" ")
			default:
				row.WriteString(emptyCellStyle.Render("· "))
			}
		}
		rows = append(rows, row.String())
	}
	return strings.Join(rows, "\n")
}

func (m Model) boardView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("◊ CYBER MURAL 2000 ◊"))
	b.WriteString("\n")
	b.WriteString(marqueeStyle.Render("★ REDE NEURAL COMPARTILHADA ★ DEIXE SUA MARCA ★"))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("VISITANTES: %d", m.visitors)))
	b.WriteString("\n\n")

	b.WriteString(textStyle.Render("● LINK NEURAL ATIVO"))
	if m.notice != "" {
		b.WriteString("  ")
		b.WriteString(noticeStyle.Render("⚠ " + m.notice))
	}
	b.WriteString("\n\n")

	if m.state.ShowForm {
		b.WriteString(m.formView())
		b.WriteString("\n\n")
	}

	if len(m.state.Notes) == 0 {
		b.WriteString(titleStyle.Render("◊ REDE NEURAL VAZIA ◊"))
		b.WriteString("\n")
		b.WriteString(textStyle.Render("Nenhuma transmissão detectada. Seja o primeiro a deixar sua marca!"))
		b.WriteString("\n")
	}

	date := time.Now().Format(dateLayout)
	for idx, note := range m.state.Notes {
		style := cardStyle
		if idx == m.selected {
			style = selectedCardStyle
		}
		card := lipgloss.JoinVertical(lipgloss.Left,
			idStyle.Render("#"+note.ShortID()),
			titleStyle.Render(note.Title),
			textStyle.Render(note.Description),
			faintStyle.Render("TRANSMITIDO: "+date),
		)
		b.WriteString(style.Render(card))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state.ShowForm {
		b.WriteString(m.help.View(formHelp{keys: m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("◊ CYBER MURAL 2000 ◊ INTERFACE DE REDE NEURAL v2.1"))
	return b.String()
}

func (m Model) formView() string {
	action := "⚡ TRANSMITIR ⚡"
	if m.state.Editing != nil {
		action = "⚡ ATUALIZAR ⚡"
	}
	return formStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("ASSUNTO:"),
		m.title.View(),
		labelStyle.Render("MENSAGEM:"),
		m.description.View(),
		marqueeStyle.Render("ctrl+s "+action),
	))
}
