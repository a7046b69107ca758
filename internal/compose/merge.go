package compose

// LoadAll loads one or more compose files and overlays them in order,
// later files overriding earlier ones. The overlay is whole-entry: a
// service, network, or volume defined in a later file replaces the
// earlier definition entirely rather than deep-merging fields. That is
// coarser than the runtime's merge but sufficient for inspection and
// lint purposes; the runtime performs the authoritative merge at `up`.
//
// The merged stack keeps the first file's path and project name, since
// overlay files conventionally sit next to the base file.
func LoadAll(paths []string) (*Stack, error) {
	if len(paths) == 1 {
		return Load(paths[0])
	}

	base, err := Load(paths[0])
	if err != nil {
		return nil, err
	}

	for _, path := range paths[1:] {
		overlay, err := Load(path)
		if err != nil {
			return nil, err
		}

		for name, svc := range overlay.Services {
			base.Services[name] = svc
		}
		for name, net := range overlay.Networks {
			if base.Networks == nil {
				base.Networks = make(map[string]Network)
			}
			base.Networks[name] = net
		}
		for name, vol := range overlay.Volumes {
			if base.Volumes == nil {
				base.Volumes = make(map[string]Volume)
			}
			base.Volumes[name] = vol
		}
		if overlay.Version != "" {
			base.Version = overlay.Version
		}
	}

	return base, nil
}
