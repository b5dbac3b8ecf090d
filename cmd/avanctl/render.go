package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/avan-studio/avan-backend/internal/projects/domain"
	projectssvc "github.com/avan-studio/avan-backend/internal/projects/service"
)

var (
	boldGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow    = color.New(color.FgYellow).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
)

func printMessage(w io.Writer, m domain.ChatMessage) {
	who := boldGreen("You: ")
	if m.Role == domain.RoleModel {
		who = boldCyan("AVAN: ")
	}
	fmt.Fprintf(w, "%s%s\n", who, domain.DisplayText(m.Text))
}

func printTurn(w io.Writer, res *projectssvc.TurnResult) {
	if res.Reply == nil {
		return
	}
	printMessage(w, *res.Reply)
	if res.CodeUpdated {
		fmt.Fprintln(w, yellow(fmt.Sprintf("[page updated, %d bytes]", len(res.Project.CurrentCode))))
	}
}

func printProjectLine(w io.Writer, p domain.Project) {
	created := time.UnixMilli(p.CreatedAt).Format("2006-01-02 15:04")
	fmt.Fprintf(w, "%s  %s  %s\n", boldCyan(p.ID), p.Name, faint(fmt.Sprintf("(%s, %d messages)", created, len(p.Messages))))
}
