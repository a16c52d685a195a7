package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	bannerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)
)

func banner() string {
	return bannerStyle.Render(titleStyle.Render("fdbreader "+version) + "\n" +
		mutedStyle.Render("read-only Firebird file reader"))
}
