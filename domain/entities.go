package domain

import (
	"fmt"
	"path"
	"strings"
)

// DeletedVersion is the version reported to the pipeline after a package or
// version was deleted. Fetching it is a no-op.
const DeletedVersion = "<DELETED>"

// Coordinates address an entity in the repository/package/version hierarchy.
// Only the leading fields relevant to the addressed level need to be set.
type Coordinates struct {
	// Subject is the owner (user or organization) of the repository.
	Subject string

	// Repository is the repository name.
	Repository string

	// Package is the package name.
	Package string

	// Version is the version name.
	Version string
}

// WithVersion returns a copy of c addressing the given version.
func (c Coordinates) WithVersion(version string) Coordinates {
	c.Version = version
	return c
}

// String renders the coordinates as a slash separated path.
func (c Coordinates) String() string {
	parts := []string{c.Subject, c.Repository}
	if c.Package != "" {
		parts = append(parts, c.Package)
	}
	if c.Version != "" {
		parts = append(parts, c.Version)
	}
	return strings.Join(parts, "/")
}

// Repository is a Bintray repository.
type Repository struct {
	// Name is the repository name.
	Name string `json:"name"`

	// Owner is the subject owning the repository.
	Owner string `json:"owner,omitempty"`

	// Type is the packaging format.
	Type RepositoryType `json:"type"`

	// Private hides the repository from anonymous users.
	Private bool `json:"private"`

	// Premium is reported by the API for paid accounts.
	Premium bool `json:"premium,omitempty"`

	// BusinessUnit assigns the repository to an organization business unit.
	BusinessUnit string `json:"business_unit,omitempty"`

	// Desc is the free-form description.
	Desc string `json:"desc,omitempty"`

	// Labels are search labels, kept sorted.
	Labels []string `json:"labels,omitempty"`

	// GPGSignMetadata signs repository metadata with the owner key.
	GPGSignMetadata bool `json:"gpg_sign_metadata"`

	// GPGSignFiles signs uploaded files.
	GPGSignFiles bool `json:"gpg_sign_files"`

	// GPGUseOwnerKey uses the owner's key instead of the Bintray key.
	GPGUseOwnerKey bool `json:"gpg_use_owner_key"`

	// YumMetadataDepth is the folder depth of RPM metadata, rpm repositories only.
	YumMetadataDepth *int `json:"yum_metadata_depth,omitempty"`

	// Created is the creation timestamp, set by the server.
	Created string `json:"created,omitempty"`
}

// Package is a package inside a repository.
type Package struct {
	// Name is the package name.
	Name string `json:"name"`

	// Repo is the repository holding the package.
	Repo string `json:"repo,omitempty"`

	// Owner is the subject owning the repository.
	Owner string `json:"owner,omitempty"`

	// Desc is the free-form description.
	Desc string `json:"desc,omitempty"`

	// Labels are search labels, kept sorted.
	Labels []string `json:"labels,omitempty"`

	// Licenses are OSS license identifiers, kept sorted.
	Licenses []string `json:"licenses,omitempty"`

	// CustomLicenses are names of custom licenses, kept sorted.
	CustomLicenses []string `json:"custom_licenses,omitempty"`

	// WebsiteURL is the project home page.
	WebsiteURL string `json:"website_url,omitempty"`

	// IssueTrackerURL is the project issue tracker.
	IssueTrackerURL string `json:"issue_tracker_url,omitempty"`

	// VCSURL is the source repository URL.
	VCSURL string `json:"vcs_url,omitempty"`

	// GitHubRepo is the "owner/name" GitHub repository.
	GitHubRepo string `json:"github_repo,omitempty"`

	// GitHubReleaseNotesFile is the release notes file inside GitHubRepo.
	GitHubReleaseNotesFile string `json:"github_release_notes_file,omitempty"`

	// PublicDownloadNumbers exposes download counters publicly.
	PublicDownloadNumbers bool `json:"public_download_numbers"`

	// PublicStats exposes statistics publicly.
	PublicStats bool `json:"public_stats"`

	// Maturity is the advertised maturity level.
	Maturity PackageMaturity `json:"maturity,omitempty"`

	// Versions lists version names, newest first, as returned by the API.
	Versions []string `json:"versions,omitempty"`

	// LatestVersion is the newest published version.
	LatestVersion string `json:"latest_version,omitempty"`

	// Created is the creation timestamp, set by the server.
	Created string `json:"created,omitempty"`

	// Updated is the last modification timestamp, set by the server.
	Updated string `json:"updated,omitempty"`
}

// Version is a version of a package.
type Version struct {
	// Name is the version string.
	Name string `json:"name"`

	// Package is the package holding the version.
	Package string `json:"package,omitempty"`

	// Repo is the repository holding the package.
	Repo string `json:"repo,omitempty"`

	// Owner is the subject owning the repository.
	Owner string `json:"owner,omitempty"`

	// Desc is the free-form description.
	Desc string `json:"desc,omitempty"`

	// Released is the release date, ISO-8601.
	Released string `json:"released,omitempty"`

	// VCSTag is the source control tag of the version.
	VCSTag string `json:"vcs_tag,omitempty"`

	// GitHubReleaseNotesFile is the release notes file for this version.
	GitHubReleaseNotesFile string `json:"github_release_notes_file,omitempty"`

	// GitHubUseTagReleaseNotes takes release notes from the GitHub tag.
	GitHubUseTagReleaseNotes *bool `json:"github_use_tag_release_notes,omitempty"`

	// Published reports whether the version content is published.
	Published bool `json:"published,omitempty"`

	// Created is the creation timestamp, set by the server.
	Created string `json:"created,omitempty"`

	// Updated is the last modification timestamp, set by the server.
	Updated string `json:"updated,omitempty"`
}

// Content is a file belonging to a version.
type Content struct {
	// Name is the base name of the file.
	Name string `json:"name,omitempty"`

	// Path is the path of the file relative to the repository root.
	Path string `json:"path"`

	// Package is the package owning the file.
	Package string `json:"package,omitempty"`

	// Version is the version owning the file.
	Version string `json:"version,omitempty"`

	// Size is the file size in bytes.
	Size int64 `json:"size,omitempty"`

	// Created is the upload timestamp.
	Created string `json:"created,omitempty"`

	// SHA1 is the hex encoded SHA-1 of the file.
	SHA1 string `json:"sha1,omitempty"`

	// SHA256 is the hex encoded SHA-256 of the file.
	SHA256 string `json:"sha256,omitempty"`
}

// CleanPath normalizes a repository-relative path: no "." or ".." segments,
// no leading or trailing slash. The repository root is the empty string.
func CleanPath(p string) string {
	cleaned := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(cleaned, "/")
}

// AbsPath returns the normalized path rooted at "/", used to compare remote
// paths independently of how they were spelled.
func AbsPath(p string) string {
	return "/" + CleanPath(p)
}

// String renders the version as "package/version".
func (v Version) String() string {
	return fmt.Sprintf("%s/%s", v.Package, v.Name)
}
