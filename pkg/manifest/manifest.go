// Package manifest parses ".install" instruction files: small ini
// documents naming the repositories to add and the packages to install
// from them.
package manifest

import (
	"io"
	"os"
	"strings"

	"github.com/glorpus-work/appmanager/pkg/errors"
	"gopkg.in/ini.v1"
)

// Suffix identifies instruction files.
const Suffix = ".install"

// Repository is one catalogue the instructions want configured.
type Repository struct {
	Name       string `json:"name"`
	URI        string `json:"uri"`
	Dist       string `json:"dist,omitempty"`
	Components string `json:"components,omitempty"`
}

// Instructions is the decoded content of an instruction file.
type Instructions struct {
	Repositories []Repository `json:"repositories"`
	Packages     []string     `json:"packages"`
}

// IsInstructionFile reports whether path names an instruction file.
func IsInstructionFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), Suffix)
}

// ParseFile reads and parses the instruction file at path.
func ParseFile(path string) (*Instructions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrManifestParse, "open %s: %v", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads instructions from r. The [install] section may name a single
// repository inline (repo_name, repo_deb) and the packages to install;
// additional [catalogue <name>] sections describe further repositories.
func Parse(r io.Reader) (*Instructions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrManifestParse, err.Error())
	}
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:  true,
		AllowShadows: true,
	}, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrManifestParse, err.Error())
	}

	install, err := cfg.GetSection("install")
	if err != nil {
		return nil, errors.Wrap(errors.ErrManifestParse, "missing [install] section")
	}

	inst := &Instructions{}
	if deb := install.Key("repo_deb").String(); deb != "" {
		repo, err := parseDebLine(deb)
		if err != nil {
			return nil, err
		}
		repo.Name = install.Key("repo_name").MustString(repo.URI)
		inst.Repositories = append(inst.Repositories, repo)
	}

	for _, sec := range cfg.Sections() {
		name, ok := strings.CutPrefix(sec.Name(), "catalogue ")
		if !ok {
			continue
		}
		uri := sec.Key("uri").String()
		if uri == "" {
			return nil, errors.Wrapf(errors.ErrManifestParse, "catalogue %q has no uri", name)
		}
		inst.Repositories = append(inst.Repositories, Repository{
			Name:       strings.TrimSpace(sec.Key("name").MustString(name)),
			URI:        uri,
			Dist:       sec.Key("dist").String(),
			Components: sec.Key("components").String(),
		})
	}

	for _, key := range []string{"package", "packages"} {
		for _, v := range install.Key(key).ValueWithShadows() {
			inst.Packages = append(inst.Packages, splitList(v)...)
		}
	}

	if len(inst.Repositories) == 0 && len(inst.Packages) == 0 {
		return nil, errors.Wrap(errors.ErrManifestParse, "instructions name no repository and no package")
	}
	return inst, nil
}

// parseDebLine decodes "deb <uri> <dist> [components...]".
func parseDebLine(line string) (Repository, error) {
	fields := strings.Fields(line)
	if len(fields) > 0 && fields[0] == "deb" {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return Repository{}, errors.Wrapf(errors.ErrManifestParse, "invalid repo_deb %q", line)
	}
	repo := Repository{URI: fields[0]}
	if len(fields) > 1 {
		repo.Dist = fields[1]
	}
	if len(fields) > 2 {
		repo.Components = strings.Join(fields[2:], " ")
	}
	return repo, nil
}

func splitList(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
}
