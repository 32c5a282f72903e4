package emu

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/klemens/2i-emulator/alu"
	"github.com/klemens/2i-emulator/cpu"
	"github.com/klemens/2i-emulator/parse"
)

// eg: FD = 1101
var inputPattern = regexp.MustCompile(`^(?i)(F[C-F])\s*=\s*([01]{1,8})$`)

var (
	labelStyle   = lipgloss.NewStyle().Faint(true)
	currentStyle = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type model struct {
	machine     *Machine
	program     *cpu.Program
	programName string

	// flags of the last executed cycle, nil before the first step
	lastFlags *alu.Flags

	command  string // line currently being typed
	message  string // feedback of the last command
	showRam  bool
	showDump bool
}

// Init is the first function that will be called. The machine is
// already fully wired, so there is nothing to do.
func (m model) Init() tea.Cmd {
	return nil
}

// Update reacts to key input. An empty line steps the machine; anything
// else is one of the inspection commands.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "ctrl+d":
		return m, tea.Quit
	case "esc":
		m.command = ""
		return m, nil
	case "backspace":
		if len(m.command) > 0 {
			m.command = m.command[:len(m.command)-1]
		}
		return m, nil
	case "enter":
		return m.execute(strings.TrimSpace(m.command))
	default:
		if key.Type == tea.KeyRunes || key.Type == tea.KeySpace {
			m.command += key.String()
		}
		return m, nil
	}
}

// execute runs one typed command line, mirroring the commands of the
// original cli: step, trigger, input register assignment, ram view.
func (m model) execute(line string) (tea.Model, tea.Cmd) {
	m.command = ""
	m.message = ""

	switch {
	case line == "":
		if m.program == nil {
			m.message = "Fehler: Kein Mikroprogramm geladen! (Laden per \"load prog.2i\")"
			break
		}
		flags, err := m.machine.Step(m.program)
		if err != nil {
			m.message = errorStyle.Render(
				fmt.Sprintf("Fehler beim Ausführen des Befehls: %q", err.Error()))
			return m, nil
		}
		m.lastFlags = &flags
	case strings.HasPrefix(line, "load "):
		path := strings.TrimSpace(line[len("load "):])
		program, err := LoadProgramFile(path)
		if err != nil {
			m.message = errorStyle.Render(
				fmt.Sprintf("Fehler beim Laden des Programms: %q", err.Error()))
			break
		}
		m.machine.Reset()
		m.program = program
		m.programName = path
		m.lastFlags = nil
	case line == "exit" || line == "quit":
		return m, tea.Quit
	case line == "ram":
		m.showRam = !m.showRam
	case line == "dump":
		m.showDump = !m.showDump
	case line == "help":
		m.message = helpText
	case strings.HasPrefix(line, "trigger "):
		switch strings.TrimSpace(line[len("trigger "):]) {
		case "INTA":
			m.machine.Cpu().TriggerVolatileInterrupt()
		case "INTB":
			m.machine.Cpu().TriggerStoredInterrupt()
		default:
			m.message = "Kein gültiger Interrupt (INTA oder INTB)."
		}
	default:
		matches := inputPattern.FindStringSubmatch(line)
		if matches == nil {
			m.message = "Ungültige Eingabe. \"help\" für Hilfe."
			break
		}
		value, err := strconv.ParseUint(matches[2], 2, 8)
		if err != nil {
			m.message = "Ungültiger Wert."
			break
		}
		index := strings.ToUpper(matches[1])[1] - 'C'
		m.machine.Io().Input()[index] = uint8(value)
	}

	return m, nil
}

// View renders the status panel of the machine, in the layout of the
// original emulator.
func (m model) View() string {
	parts := []string{
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.registerPanel(), "   ", m.ioPanel(), "   ", m.programPanel()),
		"",
		m.flagPanel(),
	}

	if m.showRam {
		parts = append(parts, "", m.ramTable())
	}
	if m.showDump {
		parts = append(parts, "", spew.Sdump(*m.machine.Cpu()))
	}
	if m.message != "" {
		parts = append(parts, "", m.message)
	}
	parts = append(parts, "", "> "+m.command)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) registerPanel() string {
	lines := []string{labelStyle.Render("Register:")}
	for i, value := range m.machine.Cpu().Registers() {
		lines = append(lines, fmt.Sprintf("  R%d: %08b", i, value))
	}
	return strings.Join(lines, "\n")
}

func (m model) ioPanel() string {
	input := m.machine.Io().Input()
	output := m.machine.Io().Output()
	return strings.Join([]string{
		labelStyle.Render("Eingaberegister:"),
		fmt.Sprintf("  FC: %08b", input[0]),
		fmt.Sprintf("  FD: %08b", input[1]),
		fmt.Sprintf("  FE: %08b", input[2]),
		fmt.Sprintf("  FF: %08b", input[3]),
		labelStyle.Render("Ausgaberegister:"),
		fmt.Sprintf("  FE: %08b", output[0]),
		fmt.Sprintf("  FF: %08b", output[1]),
	}, "\n")
}

func (m model) programPanel() string {
	name, word, mnemonic := "-", "-", "-"
	pointer := m.machine.InstructionPointer()
	if m.program != nil {
		inst := m.program[pointer]
		name = m.programName
		word = inst.String()
		mnemonic = inst.Mnemonic(int(pointer))
	}
	return strings.Join([]string{
		labelStyle.Render("Aktuelles Mikroprogramm:"),
		"  " + name,
		"",
		labelStyle.Render(fmt.Sprintf("Nächster Befehl (%05b):", pointer)),
		"  " + word,
		"  " + currentStyle.Render("~ "+mnemonic),
	}, "\n")
}

func (m model) flagPanel() string {
	stored := m.machine.Cpu().FlagRegister()
	co, no, zo := "-", "-", "-"
	if m.lastFlags != nil {
		co = fmt.Sprintf("%d", boolBit(m.lastFlags.Carry()))
		no = fmt.Sprintf("%d", boolBit(m.lastFlags.Negative()))
		zo = fmt.Sprintf("%d", boolBit(m.lastFlags.Zero()))
	}
	return fmt.Sprintf(
		"%s C: %s (%d), N: %s (%d), Z: %s (%d) | INT: %d, %d",
		labelStyle.Render("Flag (Register) | Interrupt: A/010, B/111"),
		co, boolBit(stored.Carry()),
		no, boolBit(stored.Negative()),
		zo, boolBit(stored.Zero()),
		boolBit(m.machine.Cpu().VolatileInterrupt()),
		boolBit(m.machine.Cpu().StoredInterrupt()))
}

// ramTable renders the ram backing store in the common hex-editor
// format: 16 rows of 16 cells.
func (m model) ramTable() string {
	cells := m.machine.Ram().Inspect()

	header := "    "
	for col := 0; col < 16; col++ {
		header += fmt.Sprintf(" _%X", col)
	}

	rows := []string{labelStyle.Render(header)}
	for row := 0; row < 16; row++ {
		line := fmt.Sprintf("%X_  ", row)
		for col := 0; col < 16; col++ {
			line += fmt.Sprintf(" %02X", cells[row*16+col])
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

const helpText = `FX = <wert>    Eingaberegister setzen (zB: FC = 11010)
ENTER          Nächsten Befehl ausführen
load <pfad>    Neues Mikroprogramm laden (CPU wird zurückgesetzt)
trigger <int>  Interrupt auslösen:
                 INTA (MAC 010): Nur für den nächsten Befehl gültig
                 INTB (MAC 111): Gültig bis zum nächsten Befehl mit MAC = 111
ram            RAM-Übersicht ein-/ausblenden
dump           CPU-Zustand ein-/ausblenden
help           Hilfe anzeigen
exit/quit      Emulator beenden (alternativ: STRG-D)`

// Run loads the machine's status ui and hands control to the terminal
// until the user quits. The program may be nil and loaded interactively.
func Run(machine *Machine, program *cpu.Program, name string) error {
	_, err := tea.NewProgram(model{
		machine:     machine,
		program:     program,
		programName: name,
	}).Run()
	return err
}

// LoadProgramFile reads and parses the microprogram at path.
func LoadProgramFile(path string) (*cpu.Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	program, err := parse.ReadProgram(file)
	if err != nil {
		return nil, err
	}
	return &program, nil
}
