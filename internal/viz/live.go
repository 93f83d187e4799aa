// Package viz provides the terminal live view for a running simulation.
package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"marinesim/internal/gnc"
	"marinesim/internal/sim"
)

const (
	graphWidth      = 80
	graphHeight     = 12
	historyCapacity = 600
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps one vehicle in real-ish time and renders heading, rudder and a
// yaw trace. It holds its own copy of the loop state; a crashed step freezes
// the view with the error shown.
type Model struct {
	vehicle   sim.Vehicle
	psiRefDeg float64

	eta     sim.State
	nu      sim.State
	uActual sim.Control
	t, dt   float64

	etaInit sim.State
	running bool
	err     error

	stepsPerFrame int
	yawHistory    []float64
}

func NewModel(vehicle sim.Vehicle, etaInit sim.State, dt, psiRefDeg float64, stepsPerFrame int) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	return Model{
		vehicle:       vehicle,
		psiRefDeg:     psiRefDeg,
		eta:           etaInit.Clone(),
		nu:            vehicle.InitialVelocity().Clone(),
		uActual:       vehicle.InitialActuators().Clone(),
		dt:            dt,
		etaInit:       etaInit.Clone(),
		running:       true,
		stepsPerFrame: stepsPerFrame,
		yawHistory:    make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.stepsPerFrame; i++ {
				m.step()
				if m.err != nil {
					break
				}
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	uControl, err := m.vehicle.ControlLaw(m.eta, m.nu, m.t, m.dt)
	if err != nil {
		m.err = err
		return
	}
	m.nu, m.uActual, err = m.vehicle.Dynamics(m.eta, m.nu, m.uActual, uControl, m.dt)
	if err != nil {
		m.err = err
		return
	}
	etaNext, err := gnc.AttitudeEuler(m.eta, m.nu, m.dt)
	if err != nil {
		m.err = err
		return
	}
	m.eta = sim.State(etaNext)
	m.t += m.dt

	m.yawHistory = append(m.yawHistory, gnc.Ssa(m.eta[5])*gnc.R2D)
	if len(m.yawHistory) > historyCapacity {
		m.yawHistory = m.yawHistory[1:]
	}
}

func (m *Model) reset() {
	m.eta = m.etaInit.Clone()
	m.nu = m.vehicle.InitialVelocity().Clone()
	m.uActual = m.vehicle.InitialActuators().Clone()
	m.vehicle.ResetControl()
	m.t = 0
	m.err = nil
	m.yawHistory = m.yawHistory[:0]
}

func (m Model) View() string {
	var b []byte

	title := fmt.Sprintf("%s live", m.vehicle.Name())
	if !m.running {
		title += "  " + pausedStyle.Render("[paused]")
	}
	b = append(b, headerStyle.Render(title)...)
	b = append(b, '\n')

	yaw := gnc.Ssa(m.eta[5]) * gnc.R2D
	speed := m.nu[:3].Norm()
	rudder := m.uActual[0] * gnc.R2D

	line := func(label, value string) {
		b = append(b, labelStyle.Render(label)...)
		b = append(b, valueStyle.Render(value)...)
		b = append(b, '\n')
	}
	line("time", fmt.Sprintf("%8.1f s", m.t))
	line("heading", fmt.Sprintf("%8.2f deg (ref %.1f)", yaw, m.psiRefDeg))
	line("yaw rate", fmt.Sprintf("%8.3f deg/s", m.nu[5]*gnc.R2D))
	line("speed", fmt.Sprintf("%8.2f m/s", speed))
	line("rudder", fmt.Sprintf("%8.2f deg", rudder))
	line("position", fmt.Sprintf("N %.0f m  E %.0f m", m.eta[0], m.eta[1]))

	if m.err != nil {
		b = append(b, pausedStyle.Render("error: "+m.err.Error())...)
		b = append(b, '\n')
	}

	if len(m.yawHistory) >= 2 {
		graph := asciigraph.Plot(m.yawHistory,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("yaw (deg)"),
		)
		b = append(b, graphStyle.Render(graph)...)
		b = append(b, '\n')
	}

	b = append(b, helpStyle.Render("space pause  r reset  q quit")...)
	b = append(b, '\n')
	return string(b)
}
