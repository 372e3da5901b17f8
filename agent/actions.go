package agent

import (
	"github.com/lixenwraith/ducky/engine/fsm"
)

// State entry actions available to manifests, in addition to the built-in EmitEvent
const (
	ActionShowSpeech   = "ShowSpeech"
	ActionUpdateSpeech = "UpdateSpeech"
	ActionHideSpeech   = "HideSpeech"
	ActionPlayCue      = "PlayCue"
)

func registerActions(m *fsm.Machine[*Agent]) {
	m.RegisterAction(ActionShowSpeech, func(a *Agent, e fsm.Entry, args any) {
		a.overlay.Show(speechText(e, args))
	})
	m.RegisterAction(ActionUpdateSpeech, func(a *Agent, e fsm.Entry, args any) {
		a.overlay.UpdateText(speechText(e, args))
	})
	m.RegisterAction(ActionHideSpeech, func(a *Agent, _ fsm.Entry, _ any) {
		a.overlay.Hide()
	})
	m.RegisterAction(ActionPlayCue, func(a *Agent, e fsm.Entry, args any) {
		if a.cues == nil {
			return
		}
		if ca, ok := args.(*fsm.ActionArgs); ok && ca.Cue != "" {
			if !a.cues.Play(ca.Cue) {
				a.logger.Debug("cue not played", "cue", ca.Cue, "state", string(e.State))
			}
		}
	})
}

// speechText prefers a "text" transition parameter over the configured text
func speechText(e fsm.Entry, args any) string {
	if text, ok := e.Params.String("text"); ok {
		return text
	}
	if a, ok := args.(*fsm.ActionArgs); ok {
		return a.Text
	}
	return ""
}
