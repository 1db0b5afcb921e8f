package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/starstrike/internal/draw"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/object"
)

var (
	hudColor      = draw.Tint(object.Hex(0x00ff00))
	gameOverColor = draw.Tint(object.Hex(0xff4400))
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or overlay transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	gameOver := c.state.Display.GameOverVisible
	if c.state.Screen != c.state.prevScreen || c.state.isInactive != c.state.wasInactive || gameOver != c.state.wasGameOver {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
		c.state.wasGameOver = gameOver
	}

	// The scene keeps rendering behind every overlay.
	c.scene.Render(c.canvas, c.server.Snapshot())
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI() {
	width := c.canvas.TerminalWidth()
	centerY := c.canvas.TerminalHeight() / 2

	if c.state.Screen == ScreenShutdown {
		c.drawShutdownScreen(width, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(width, centerY)
		return
	}

	switch c.state.Screen {
	case ScreenStart:
		c.drawStartScreen(width, centerY)
	case ScreenPlaying:
		c.drawPlayingHUD(width)
		if c.state.Display.GameOverVisible {
			c.drawGameOverScreen(width, centerY)
		}
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(width, centerY int) {
	cw := c.chunkWriter
	cw.WriteText(draw.Centered(width, centerY-2, "INACTIVITY WARNING"))
	cw.WriteText(draw.Centered(width, centerY, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)))
	cw.WriteText(draw.Centered(width, centerY+2, "Press any key to continue"))
}

// Title art (figlet "small" font).
var titleArt = []string{
	`  ___ _____ _   ___  ___ _____ ___ ___ _  _____  `,
	` / __|_   _/_\ | _ \/ __|_   _| _ \_ _| |/ / __| `,
	` \__ \ | |/ _ \|   /\__ \ | | |   /| || ' <| _|  `,
	` |___/ |_/_/ \_\_|_\|___/ |_| |_|_\___|_|\_\___| `,
}

var controlLines = []string{
	"WASD / Arrows . . Move",
	"SPACE  . . . . . Shoot",
	"R / ENTER  . . Restart",
	"Q  . . . . . . .  Quit",
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(width, centerY int) {
	cw := c.chunkWriter
	titleY := centerY - 7
	cw.SetColor(hudColor)
	for i, line := range titleArt {
		cw.WriteText(draw.Centered(width, titleY+i, line))
	}
	cw.SetColor(0)

	cw.WriteText(draw.Centered(width, titleY+len(titleArt)+1, "~ Dodge, shoot, survive ~"))

	controlsY := titleY + len(titleArt) + 3
	cw.WriteText(draw.Centered(width, controlsY, "Controls"))
	for i, line := range controlLines {
		cw.WriteText(draw.Centered(width, controlsY+1+i, line))
	}

	// Blinking start prompt
	prompt := ">>  Press SPACE to Start  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = strings.Repeat(" ", len(prompt))
	}
	cw.WriteText(draw.Centered(width, controlsY+len(controlLines)+2, prompt))
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(width int) {
	cw := c.chunkWriter
	cw.SetColor(hudColor)

	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", c.state.Display.Score))

	livesText := fmt.Sprintf("Lives: %-3d", c.state.Display.Lives)
	cw.WriteAt(width-len(livesText)-1, 1, livesText)

	cw.SetColor(0)
}

// drawGameOverScreen is shown only once the final explosion has finished.
func (c *Client) drawGameOverScreen(width, centerY int) {
	cw := c.chunkWriter
	cw.SetColor(gameOverColor)
	cw.WriteText(draw.Centered(width, centerY-1, "GAME OVER"))
	cw.SetColor(0)

	cw.WriteText(draw.Centered(width, centerY+1, fmt.Sprintf("Final Score: %d", c.state.Display.FinalScore)))
	cw.WriteText(draw.Centered(width, centerY+3, "Press R or ENTER to play again, Q to quit"))
}

// drawShutdownScreen draws the server shutdown notice.
func (c *Client) drawShutdownScreen(width, centerY int) {
	cw := c.chunkWriter
	cw.WriteText(draw.Centered(width, centerY-1, "SERVER SHUTTING DOWN"))
	cw.WriteText(draw.Centered(width, centerY+1, fmt.Sprintf("Final score: %d. Disconnecting in %d seconds.",
		c.state.Display.Score, max(int(c.state.shutdownTimer+0.999), 0))))
}
