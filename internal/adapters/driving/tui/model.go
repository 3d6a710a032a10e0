// Package tui provides the interactive chat interface over the
// retrieval core.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driving"
)

// chatSystemPrompt grounds every LLM turn in retrieved context.
const chatSystemPrompt = `You are chainpulse, an assistant for the Base DeFi ecosystem.
Answer using ONLY the provided context. If the context does not cover
the question, say so plainly.`

// retrievalLimit is how many chunks ground each chat turn.
const retrievalLimit = 5

// turn is one question/answer exchange in the transcript.
type turn struct {
	question string
	answer   string
}

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	question string
	answer   string
	err      error
}

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	ctx       context.Context
	retrieval driving.RetrievalService
	llm       driven.LLMService

	input    textinput.Model
	viewport viewport.Model
	turns    []turn
	status   string
	thinking bool
	ready    bool
}

// New creates a chat model. The LLM is optional; without it answers
// are the raw retrieval context.
func New(ctx context.Context, retrieval driving.RetrievalService, llm driven.LLMService) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the Base ecosystem and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	status := "Ready. LLM: "
	if llm != nil {
		status += llm.ModelName()
	} else {
		status += "none (showing raw context)"
	}

	return Model{
		ctx:       ctx,
		retrieval: retrieval,
		llm:       llm,
		input:     ti,
		viewport:  viewport.New(0, 0),
		status:    status,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameH := transcriptStyle.GetFrameSize()
		reserved := 4 + frameH // header, input, status, spacer
		height := msg.Height - reserved
		if height < 3 {
			height = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = height
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case answerMsg:
		m.thinking = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.turns = append(m.turns, turn{question: msg.question, answer: msg.answer})
			m.status = fmt.Sprintf("%d exchanges", len(m.turns))
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.thinking {
				return m, nil
			}
			m.input.SetValue("")
			m.thinking = true
			m.status = "Thinking..."
			return m, m.answer(question)
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("chainpulse chat")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

// answer retrieves context and generates a reply off the update loop.
func (m Model) answer(question string) tea.Cmd {
	ctx, retrieval, llm := m.ctx, m.retrieval, m.llm
	return func() tea.Msg {
		chunks, err := retrieval.FindRelevantDocuments(ctx, question, retrievalLimit)
		if err != nil {
			return answerMsg{question: question, err: err}
		}
		if len(chunks) == 0 {
			return answerMsg{question: question, answer: "Nothing in the corpus matches that question."}
		}

		contextBlob := retrieval.FormatContext(chunks)
		if llm == nil {
			return answerMsg{question: question, answer: contextBlob}
		}

		reply, err := llm.Chat(ctx, []driven.ChatMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: "Context:\n" + contextBlob + "\n\nQuestion: " + question},
		}, driven.ChatOptions{MaxTokens: 600, Temperature: 0.2})
		if err != nil {
			// LLM outage degrades to raw context instead of failing the turn.
			if errors.Is(err, domain.ErrLLMUnavailable) {
				return answerMsg{question: question, answer: "(LLM unavailable, raw context)\n\n" + contextBlob}
			}
			return answerMsg{question: question, err: err}
		}
		return answerMsg{question: question, answer: strings.TrimSpace(reply)}
	}
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return "Ask a question to get started."
	}
	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + t.question))
		b.WriteString("\n")
		b.WriteString(t.answer)
	}
	return b.String()
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
