package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type presetMetaYAML struct {
	Name string `yaml:"name"`
}
type presetMetaListYAML struct {
	Items []presetMetaYAML `yaml:"items"`
}

// preset maps parameter names to plain values.
type preset struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params"`
}

// ErrInvalidPresetName is returned for names that would leave the preset directory.
var ErrInvalidPresetName = errors.New("invalid preset name")

func validatePresetName(name string) error {
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidPresetName, name)
	}
	return nil
}

// presetManager is used by the command loop and the report loop at once.
type presetManager struct {
	mu   sync.Mutex
	dir  string
	list []string
}

func newPresetManager(dir string) *presetManager {
	return &presetManager{
		dir: dir,
	}
}

// getList reads dir/_list.yml once and returns a copy.
func (pm *presetManager) getList() ([]string, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	list, err := pm.cachedList()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), list...), nil
}

func (pm *presetManager) cachedList() ([]string, error) {
	if pm.list == nil {
		if err := pm.loadList(); err != nil {
			return nil, err
		}
	}
	return pm.list, nil
}

func (pm *presetManager) loadList() error {
	path := filepath.Join(pm.dir, "_list.yml")
	bytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read preset list: %w", err)
	}
	var metaList presetMetaListYAML
	if err := yaml.Unmarshal(bytes, &metaList); err != nil {
		return fmt.Errorf("could not parse preset list %v: %w", path, err)
	}
	pm.list = make([]string, 0, len(metaList.Items))
	for _, item := range metaList.Items {
		pm.list = append(pm.list, item.Name)
	}
	return nil
}

func (pm *presetManager) load(name string) (*preset, error) {
	if err := validatePresetName(name); err != nil {
		return nil, err
	}
	path := filepath.Join(pm.dir, name+".yml")
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read preset %v: %w", name, err)
	}
	p := &preset{Name: name}
	if err := yaml.Unmarshal(bytes, p); err != nil {
		return nil, fmt.Errorf("could not parse preset %v: %w", path, err)
	}
	return p, nil
}

// save writes the preset and adds it to _list.yml if it is new.
func (pm *presetManager) save(p *preset) error {
	if err := validatePresetName(p.Name); err != nil {
		return err
	}
	pm.mu.Lock()
	defer pm.mu.Unlock()
	bytes, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(pm.dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create preset directory %v: %w", pm.dir, err)
	}
	if err := os.WriteFile(filepath.Join(pm.dir, p.Name+".yml"), bytes, 0644); err != nil {
		return fmt.Errorf("could not write preset %v: %w", p.Name, err)
	}
	list, err := pm.cachedList()
	if err != nil {
		list = nil
	}
	for _, name := range list {
		if name == p.Name {
			return nil
		}
	}
	pm.list = append(list, p.Name)
	metaList := presetMetaListYAML{Items: make([]presetMetaYAML, len(pm.list))}
	for i, name := range pm.list {
		metaList.Items[i] = presetMetaYAML{Name: name}
	}
	bytes, err = yaml.Marshal(&metaList)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(pm.dir, "_list.yml"), bytes, 0644)
}

// applyTo validates every name before touching the synth.
func (p *preset) applyTo(a *Audio) error {
	ids := make([]ParamID, 0, len(p.Params))
	for name := range p.Params {
		id, err := ParamIDFromString(name)
		if err != nil {
			return fmt.Errorf("preset %v: %w", p.Name, err)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		d := a.Registry.Descriptor(id)
		a.SetParam(id, d.Normalize(p.Params[id.String()]))
	}
	return nil
}

// presetFrom snapshots the current plain values.
func presetFrom(name string, a *Audio) *preset {
	p := &preset{Name: name, Params: make(map[string]float64)}
	for _, id := range a.ParamIDs() {
		p.Params[id.String()] = a.GetParam(id)
	}
	return p
}
