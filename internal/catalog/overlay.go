package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile returns the built-in catalog with the YAML overlay at path
// applied on top. Overlay entries replace built-in entries with the same id
// and append new ones.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog overlay: %w", err)
	}
	return Overlay(Default(), data)
}

// Overlay applies a YAML Snapshot document to a copy of base.
func Overlay(base *Catalog, data []byte) (*Catalog, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing catalog overlay: %w", err)
	}

	c := &Catalog{
		lasers:          base.lasers.clone(),
		ammo:            base.ammo.clone(),
		drones:          base.drones.clone(),
		designs:         base.designs.clone(),
		formations:      base.formations.clone(),
		rockets:         base.rockets.clone(),
		launchers:       base.launchers.clone(),
		launcherRockets: base.launcherRockets.clone(),
		skills:          base.skills,
	}

	for _, v := range snap.Lasers {
		if err := checkID("laser", v.ID); err != nil {
			return nil, err
		}
		c.lasers.put(v.ID, v)
	}
	for _, v := range snap.Ammo {
		if err := checkID("ammo", v.ID); err != nil {
			return nil, err
		}
		c.ammo.put(v.ID, v)
	}
	for _, v := range snap.Drones {
		if err := checkID("drone", v.ID); err != nil {
			return nil, err
		}
		c.drones.put(v.ID, v)
	}
	for _, v := range snap.DroneDesigns {
		if err := checkID("drone design", v.ID); err != nil {
			return nil, err
		}
		switch v.Effect {
		case EffectNone, EffectLaser, EffectRocket, EffectTotal:
		case "":
			v.Effect = EffectNone
		default:
			return nil, fmt.Errorf("drone design %s: unknown effect %q", v.ID, v.Effect)
		}
		c.designs.put(v.ID, v)
	}
	for _, v := range snap.Formations {
		if err := checkID("formation", v.ID); err != nil {
			return nil, err
		}
		c.formations.put(v.ID, v)
	}
	for _, v := range snap.Rockets {
		if err := checkID("rocket", v.ID); err != nil {
			return nil, err
		}
		c.rockets.put(v.ID, v)
	}
	for _, v := range snap.Launchers {
		if err := checkID("rocket launcher", v.ID); err != nil {
			return nil, err
		}
		c.launchers.put(v.ID, v)
	}
	for _, v := range snap.LauncherRockets {
		if err := checkID("launcher rocket", v.ID); err != nil {
			return nil, err
		}
		c.launcherRockets.put(v.ID, v)
	}
	if snap.Skills != nil {
		if err := c.skills.apply(*snap.Skills); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func checkID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s entry without id", kind)
	}
	return nil
}
