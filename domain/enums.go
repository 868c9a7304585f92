package domain

import "strings"

// RepositoryType is the packaging format of a repository.
type RepositoryType string

const (
	// RepositoryTypeGeneric stores arbitrary files.
	RepositoryTypeGeneric RepositoryType = "generic"

	// RepositoryTypeMaven stores Maven artifacts.
	RepositoryTypeMaven RepositoryType = "maven"

	// RepositoryTypeDebian stores Debian packages.
	RepositoryTypeDebian RepositoryType = "debian"

	// RepositoryTypeRPM stores RPM packages.
	RepositoryTypeRPM RepositoryType = "rpm"

	// RepositoryTypeDocker stores Docker images.
	RepositoryTypeDocker RepositoryType = "docker"

	// RepositoryTypeNPM stores npm packages.
	RepositoryTypeNPM RepositoryType = "npm"

	// RepositoryTypeConan stores Conan packages.
	RepositoryTypeConan RepositoryType = "conan"

	// RepositoryTypeNuGet stores NuGet packages.
	RepositoryTypeNuGet RepositoryType = "nuget"

	// RepositoryTypeVagrant stores Vagrant boxes.
	RepositoryTypeVagrant RepositoryType = "vagrant"

	// RepositoryTypeOpkg stores opkg packages.
	RepositoryTypeOpkg RepositoryType = "opkg"
)

// RepositoryTypes lists every known repository type.
var RepositoryTypes = []RepositoryType{
	RepositoryTypeGeneric,
	RepositoryTypeMaven,
	RepositoryTypeDebian,
	RepositoryTypeRPM,
	RepositoryTypeDocker,
	RepositoryTypeNPM,
	RepositoryTypeConan,
	RepositoryTypeNuGet,
	RepositoryTypeVagrant,
	RepositoryTypeOpkg,
}

// String returns the string representation of the RepositoryType.
func (t RepositoryType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known repository types.
func (t RepositoryType) Valid() bool {
	for _, known := range RepositoryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// PackageMaturity is the maturity level advertised for a package.
type PackageMaturity string

const (
	// MaturityNone means no maturity level is set.
	MaturityNone PackageMaturity = ""

	// MaturityOfficial marks an official package.
	MaturityOfficial PackageMaturity = "Official"

	// MaturityStable marks a stable package.
	MaturityStable PackageMaturity = "Stable"

	// MaturityDevelopment marks a package under development.
	MaturityDevelopment PackageMaturity = "Development"

	// MaturityExperimental marks an experimental package.
	MaturityExperimental PackageMaturity = "Experimental"
)

// ParsePackageMaturity maps a user supplied string to a maturity level.
// Matching is case-insensitive; unknown values map to MaturityNone.
func ParsePackageMaturity(s string) PackageMaturity {
	for _, m := range []PackageMaturity{MaturityOfficial, MaturityStable, MaturityDevelopment, MaturityExperimental} {
		if strings.EqualFold(s, string(m)) {
			return m
		}
	}
	return MaturityNone
}

// String returns the string representation of the PackageMaturity.
func (m PackageMaturity) String() string {
	return string(m)
}
