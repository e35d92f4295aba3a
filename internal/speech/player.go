// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// player.go plays synthesized audio through whatever command-line player
// the host has, and falls back to a local text-to-speech command when
// remote synthesis is unavailable.
package speech

import (
	"context"
	"errors"
	"log"
	"os"
	"os/exec"
	"runtime"
)

// audioPlayers are tried in order for MPEG playback.
var audioPlayers = [][]string{
	{"afplay"},
	{"mpg123", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
}

// localSynthesizers are tried in order when remote synthesis fails.
// Each takes the text as its final argument.
var localSynthesizers = [][]string{
	{"say"},
	{"espeak"},
	{"espeak-ng"},
}

// ErrNoPlayer indicates no playback command is installed.
var ErrNoPlayer = errors.New("no audio player available")

// Player shells out to a host audio player.
type Player struct{}

// NewPlayer creates a player.
func NewPlayer() *Player {
	return &Player{}
}

// Play writes the audio to a temp file and plays it with the first
// available player command. Blocks until playback finishes.
func (p *Player) Play(ctx context.Context, audio []byte) error {
	tmp, err := os.CreateTemp("", "birxuo-speech-*.mp3")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	for _, player := range audioPlayers {
		if _, err := exec.LookPath(player[0]); err != nil {
			continue
		}
		args := append(player[1:], tmp.Name())
		return exec.CommandContext(ctx, player[0], args...).Run()
	}
	return ErrNoPlayer
}

// SpeakLocally voices text with a local synthesizer command.
func (p *Player) SpeakLocally(ctx context.Context, text string) error {
	for _, synth := range localSynthesizers {
		if runtime.GOOS != "darwin" && synth[0] == "say" {
			continue
		}
		if _, err := exec.LookPath(synth[0]); err != nil {
			continue
		}
		args := append(synth[1:], text)
		return exec.CommandContext(ctx, synth[0], args...).Run()
	}
	return ErrNoPlayer
}

// Narrator ties remote synthesis and local playback together.
type Narrator struct {
	client  *Client
	player  *Player
	voiceID string
}

// NewNarrator creates a narrator. An empty voice id uses the default
// voice.
func NewNarrator(client *Client, voiceID string) *Narrator {
	return &Narrator{
		client:  client,
		player:  NewPlayer(),
		voiceID: voiceID,
	}
}

// SetVoice changes the synthesis voice.
func (n *Narrator) SetVoice(voiceID string) {
	n.voiceID = voiceID
}

// Speak voices text without blocking the caller. Remote synthesis is
// preferred; a local synthesizer covers the unconfigured and offline
// cases. Failures are logged, never surfaced, so audio can never break
// a completed submission.
func (n *Narrator) Speak(ctx context.Context, text string) {
	go func() {
		if n.client.IsConfigured() {
			audio, err := n.client.Synthesize(ctx, text, n.voiceID)
			if err == nil {
				if err := n.player.Play(ctx, audio); err != nil {
					log.Printf("audio playback failed: %v", err)
				}
				return
			}
			log.Printf("speech synthesis failed, falling back to local: %v", err)
		}
		if err := n.player.SpeakLocally(ctx, text); err != nil {
			log.Printf("local speech failed: %v", err)
		}
	}()
}
