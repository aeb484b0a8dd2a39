package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/classdiagram/pkg/classdiagram"
	dio "github.com/matzehuels/classdiagram/pkg/io"
)

var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Browse the classes of a definition",
		Long: `Build a definition and browse its classes interactively. Press enter on a class
to see its Mermaid block and relationships. --plain prints a summary instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := dio.ImportFile(args[0])
			if err != nil {
				return err
			}
			d, err := def.Build()
			if err != nil {
				return err
			}

			if plain {
				printSummary(args[0], d)
				return nil
			}
			p := tea.NewProgram(NewInspectModel(d), tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a summary instead of the interactive view")
	return cmd
}

// printSummary prints diagram counts and the class list.
func printSummary(path string, d classdiagram.Diagram) {
	title := d.Title()
	if title == "" {
		title = path
	}
	fmt.Fprintln(uiOut, StyleTitle.Render(title))
	printKeyValue("Classes", fmt.Sprint(len(d.Classes())))
	printKeyValue("Relationships", fmt.Sprint(len(d.Relationships())))
	printKeyValue("Namespaces", fmt.Sprint(countNamed(d.Namespaces())))
	printKeyValue("Notes", fmt.Sprint(len(d.Notes())))
	printKeyValue("Styles", fmt.Sprint(len(d.StyleClasses())))
	for _, cl := range d.Classes() {
		attrs, methods := countMembers(cl)
		name := cl.ID()
		if ns := cl.Namespace(); ns != "" {
			name = ns + "." + name
		}
		printDetail("%s  %d attributes, %d methods", name, attrs, methods)
	}
}

// =============================================================================
// InspectModel - Interactive class browser
// =============================================================================

// InspectModel is the bubbletea model for the inspect command.
type InspectModel struct {
	Title         string
	Classes       []classdiagram.Class
	Relationships []classdiagram.Relationship
	Cursor        int
	Offset        int
	Height        int
	ShowDetail    bool
}

// NewInspectModel creates a model listing the classes of d.
func NewInspectModel(d classdiagram.Diagram) InspectModel {
	return InspectModel{
		Title:         d.Title(),
		Classes:       d.Classes(),
		Relationships: d.Relationships(),
		Height:        15,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.ShowDetail {
				m.ShowDetail = false
				return m, nil
			}
			return m, tea.Quit
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Classes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(m.Classes) > 0 {
				m.ShowDetail = !m.ShowDetail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	title := m.Title
	if title == "" {
		title = "Class Diagram"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Classes) == 0 {
		b.WriteString(listDimStyle.Render("  no classes"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Classes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cl := m.Classes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		attrs, methods := countMembers(cl)
		rows = append(rows, []string{
			cursor,
			cl.ID(),
			orDash(cl.Namespace()),
			orDash(cl.Annotation()),
			fmt.Sprint(attrs),
			fmt.Sprint(methods),
			fmt.Sprint(len(m.relationshipsOf(cl.ID()))),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Class", "Namespace", "Annotation", "Attrs", "Methods", "Links").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Classes))))
	b.WriteString("\n")

	if m.ShowDetail {
		b.WriteString("\n")
		b.WriteString(detailBoxStyle.Render(m.detail(m.Classes[m.Cursor])))
		b.WriteString("\n")
	}
	return b.String()
}

// detail renders the class block and every relationship touching it.
func (m InspectModel) detail(cl classdiagram.Class) string {
	var b strings.Builder
	b.WriteString(cl.Render(""))
	if rels := m.relationshipsOf(cl.ID()); len(rels) > 0 {
		b.WriteString("\n\n")
		b.WriteString(StyleHighlight.Render("relationships"))
		for _, r := range rels {
			b.WriteString("\n")
			b.WriteString(r.Render(""))
		}
	}
	return b.String()
}

func (m InspectModel) relationshipsOf(id string) []classdiagram.Relationship {
	var out []classdiagram.Relationship
	for _, r := range m.Relationships {
		if r.From() == id || r.To() == id {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// Helpers
// =============================================================================

func countMembers(cl classdiagram.Class) (attrs, methods int) {
	for _, mem := range cl.Members() {
		if mem.Kind() == classdiagram.KindMethod {
			methods++
		} else {
			attrs++
		}
	}
	return attrs, methods
}

// countNamed counts namespaces other than the default one.
func countNamed(namespaces []string) int {
	n := 0
	for _, ns := range namespaces {
		if ns != "" {
			n++
		}
	}
	return n
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
