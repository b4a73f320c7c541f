package tui

import (
	"fmt"
	"os"
	"os/exec"

	"codeberg.org/careerintel/server/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
)

func startServer() tea.Msg {
	serverPath := "bin/server"

	if _, err := os.Stat(serverPath); os.IsNotExist(err) {
		buildCmd := exec.Command("go", "build", "-o", serverPath, "./cmd/server")
		if err := buildCmd.Run(); err != nil {
			return ErrorMsg{err: fmt.Errorf("failed to build server: %w", err)}
		}
	}

	cmd := exec.Command(serverPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	go func() {
		if err := cmd.Run(); err != nil {
			logger.ErrorErr(err, "server error")
		}
	}()

	return ServerStartedMsg{}
}

func showStats() tea.Msg {
	ingesterPath := "bin/ingester"

	if _, err := os.Stat(ingesterPath); os.IsNotExist(err) {
		buildCmd := exec.Command("go", "build", "-o", ingesterPath, "./cmd/ingester")

		if err := buildCmd.Run(); err != nil {
			return ErrorMsg{err: fmt.Errorf("failed to build ingester: %w", err)}
		}
	}

	cmd := exec.Command(ingesterPath, "stats")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return ErrorMsg{err: fmt.Errorf("stats failed: %w", err)}
	}

	return IngesterCompleteMsg{}
}
