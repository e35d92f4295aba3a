// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/birxuo/birxuo-tui/internal/catalog"
	"github.com/birxuo/birxuo-tui/internal/openrouter"
	"github.com/birxuo/birxuo-tui/internal/speech"
	"github.com/birxuo/birxuo-tui/internal/store"
)

// =============================================================================
// SETUP WIZARD
// =============================================================================

// HandleSetup runs the interactive setup wizard: credentials, default
// model, and optional speech configuration.
func HandleSetup(app *App) error {
	fmt.Println()
	fmt.Println("BIRXUO Setup")
	fmt.Println(strings.Repeat("=", 39))
	fmt.Println()

	// Step 1: OpenRouter credential
	fmt.Println("Step 1: OpenRouter API Key")
	fmt.Println(strings.Repeat("-", 26))
	fmt.Println("Get a key at https://openrouter.ai/keys")
	key := promptSecure("OpenRouter API key (press Enter to keep current)")
	if key != "" {
		if !openrouter.ValidateAPIKey(key) {
			fmt.Println("  X That does not look like an OpenRouter key (expected sk-or-... prefix).")
			if !promptYesNo("Store it anyway?", false) {
				key = ""
			}
		}
	}
	if key != "" {
		if err := app.Settings.SetSecret(store.KeyOpenRouterAPIKey, key); err != nil {
			return fmt.Errorf("store openrouter key: %w", err)
		}
		app.Client.SetCredential(key)
		fmt.Println("  Key stored (encrypted).")
	}
	fmt.Println()

	// Step 2: Default model
	fmt.Println("Step 2: Default Model")
	fmt.Println(strings.Repeat("-", 21))
	fmt.Println("Available models:")
	for i, m := range catalog.Models {
		marker := " "
		if m.ID == app.Session.SelectedModel() {
			marker = "*"
		}
		fmt.Printf("  [%d]%s %s (%s)\n", i+1, marker, m.Name, m.ID)
	}
	choice := setupPromptInput(fmt.Sprintf("Choice [1-%d, Enter to keep current]: ", len(catalog.Models)))
	if choice != "" {
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(catalog.Models) {
			fmt.Println("  X Invalid choice, keeping current model.")
		} else {
			modelID := catalog.Models[idx-1].ID
			app.Session.SelectModel(modelID)
			if err := app.Settings.Set(store.KeySelectedModel, modelID); err != nil {
				return fmt.Errorf("store model choice: %w", err)
			}
			fmt.Printf("  Default model set to %s\n", catalog.DisplayName(modelID))
		}
	}
	fmt.Println()

	// Step 3: Speech (optional)
	fmt.Println("Step 3: Speech (optional)")
	fmt.Println(strings.Repeat("-", 25))
	if promptYesNo("Enable spoken replies via ElevenLabs?", false) {
		elKey := promptSecure("ElevenLabs API key")
		if elKey != "" {
			if err := app.Settings.SetSecret(store.KeyElevenLabsAPIKey, elKey); err != nil {
				return fmt.Errorf("store elevenlabs key: %w", err)
			}
			if err := app.Settings.SetBool(store.KeyAudioEnabled, true); err != nil {
				return fmt.Errorf("store audio toggle: %w", err)
			}
			fmt.Println("  Voices:")
			for i, v := range speech.AvailableVoices {
				fmt.Printf("  [%d] %s\n", i+1, v.Name)
			}
			vc := setupPromptInput(fmt.Sprintf("Voice [1-%d, Enter for default]: ", len(speech.AvailableVoices)))
			voiceID := speech.DefaultVoiceID
			if vc != "" {
				if idx, err := strconv.Atoi(vc); err == nil && idx >= 1 && idx <= len(speech.AvailableVoices) {
					voiceID = speech.AvailableVoices[idx-1].ID
				}
			}
			if err := app.Settings.Set(store.KeyElevenLabsVoiceID, voiceID); err != nil {
				return fmt.Errorf("store voice choice: %w", err)
			}
			fmt.Println("  Speech configured.")
		}
	}
	fmt.Println()

	fmt.Println("Setup complete. Run birxuo to start chatting.")
	fmt.Println()
	return nil
}

// =============================================================================
// INPUT HELPERS
// =============================================================================

var inputReader = bufio.NewReader(os.Stdin)
var inputMutex sync.Mutex

// setupPromptInput reads a line from stdin.
func setupPromptInput(prompt string) string {
	inputMutex.Lock()
	defer inputMutex.Unlock()

	fmt.Print(prompt)
	line, err := inputReader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// promptYesNo asks a yes/no question with a default.
func promptYesNo(prompt string, defaultYes bool) bool {
	suffix := " [y/N]: "
	if defaultYes {
		suffix = " [Y/n]: "
	}
	answer := strings.ToLower(setupPromptInput(prompt + suffix))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}

// promptSecure prompts for sensitive input without echoing.
// Uses golang.org/x/term for cross-platform terminal handling.
func promptSecure(prompt string) string {
	inputMutex.Lock()
	defer inputMutex.Unlock()

	if prompt != "" {
		fmt.Print(prompt)
		if !strings.HasSuffix(prompt, ": ") && !strings.HasSuffix(prompt, " ") {
			fmt.Print(": ")
		}
	}

	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(keyBytes))
}
