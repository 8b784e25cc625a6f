package app

import (
	"context"
	"log"

	"github.com/ayusman/unistroke/internal/plugin"
	"github.com/ayusman/unistroke/internal/store"
)

// logResult records matched strokes in the store.
func (a *App) logResult(res Result) {
	if !res.Matched() {
		return
	}
	rec := &store.Recognition{
		TemplateName:  res.Name,
		TemplateIndex: res.Index,
		Score:         res.Score,
		Distance:      res.Distance,
		Overflow:      res.Overflow,
	}
	if err := a.cfg.Store.Recognitions().Create(rec, res.Points); err != nil {
		log.Printf("Failed to log recognition: %v", err)
	}
}

// runActions starts the plugin actions bound to the recognized template.
func (a *App) runActions(res Result) {
	if !res.Matched() || res.Score < a.cfg.MinScore {
		return
	}
	actions, err := a.cfg.Store.Actions().ForTemplate(res.Name)
	if err != nil {
		log.Printf("Failed to look up actions for %s: %v", res.Name, err)
		return
	}

	for _, act := range actions {
		if res.Score < act.MinScore {
			continue
		}
		p, err := a.pluginMgr.Get(act.PluginName)
		if err != nil {
			log.Printf("Action %s: %s: %v", act.ID, act.PluginName, err)
			continue
		}
		req := &plugin.Request{
			Action:   act.ActionName,
			Gesture:  res.Name,
			Score:    res.Score,
			Distance: res.Distance,
			Points:   res.Points,
			Config:   act.Config,
		}
		a.actions.Add(1)
		go func() {
			defer a.actions.Done()
			a.executeAction(p, req)
		}()
	}
}

func (a *App) executeAction(p *plugin.Plugin, req *plugin.Request) {
	resp, err := a.pluginExec.Execute(context.Background(), p, req)
	if err != nil {
		log.Printf("Action %s/%s failed: %v", p.Manifest.Name, req.Action, err)
		return
	}
	if !resp.Success {
		log.Printf("Action %s/%s reported error: %s", p.Manifest.Name, req.Action, resp.Error)
		return
	}
	log.Printf("Action %s/%s triggered by %s", p.Manifest.Name, req.Action, req.Gesture)
}
