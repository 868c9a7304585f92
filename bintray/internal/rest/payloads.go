package rest

import "github.com/rabbitmq/concourse-bintray-resources/domain"

// Request bodies only carry the fields the API accepts for writes.
// Server managed fields such as created or versions are never sent back.

type repositoryPayload struct {
	Name             string                `json:"name,omitempty"`
	Type             domain.RepositoryType `json:"type,omitempty"`
	Private          *bool                 `json:"private,omitempty"`
	BusinessUnit     string                `json:"business_unit,omitempty"`
	Desc             string                `json:"desc,omitempty"`
	Labels           []string              `json:"labels,omitempty"`
	GPGSignMetadata  bool                  `json:"gpg_sign_metadata"`
	GPGSignFiles     bool                  `json:"gpg_sign_files"`
	GPGUseOwnerKey   bool                  `json:"gpg_use_owner_key"`
	YumMetadataDepth *int                  `json:"yum_metadata_depth,omitempty"`
}

// newRepositoryPayload builds a create body when create is true, an update
// body otherwise. Name, type and visibility cannot be changed after creation.
func newRepositoryPayload(repo *domain.Repository, create bool) repositoryPayload {
	p := repositoryPayload{
		BusinessUnit:    repo.BusinessUnit,
		Desc:            repo.Desc,
		Labels:          repo.Labels,
		GPGSignMetadata: repo.GPGSignMetadata,
		GPGSignFiles:    repo.GPGSignFiles,
		GPGUseOwnerKey:  repo.GPGUseOwnerKey,
	}
	if create {
		private := repo.Private
		p.Name = repo.Name
		p.Type = repo.Type
		p.Private = &private
		p.YumMetadataDepth = repo.YumMetadataDepth
	}
	return p
}

type packagePayload struct {
	Name                   string                 `json:"name,omitempty"`
	Desc                   string                 `json:"desc,omitempty"`
	Labels                 []string               `json:"labels,omitempty"`
	Licenses               []string               `json:"licenses,omitempty"`
	CustomLicenses         []string               `json:"custom_licenses,omitempty"`
	WebsiteURL             string                 `json:"website_url,omitempty"`
	IssueTrackerURL        string                 `json:"issue_tracker_url,omitempty"`
	VCSURL                 string                 `json:"vcs_url,omitempty"`
	GitHubRepo             string                 `json:"github_repo,omitempty"`
	GitHubReleaseNotesFile string                 `json:"github_release_notes_file,omitempty"`
	PublicDownloadNumbers  bool                   `json:"public_download_numbers"`
	PublicStats            bool                   `json:"public_stats"`
	Maturity               domain.PackageMaturity `json:"maturity,omitempty"`
}

func newPackagePayload(pkg *domain.Package, create bool) packagePayload {
	p := packagePayload{
		Desc:                   pkg.Desc,
		Labels:                 pkg.Labels,
		Licenses:               pkg.Licenses,
		CustomLicenses:         pkg.CustomLicenses,
		WebsiteURL:             pkg.WebsiteURL,
		IssueTrackerURL:        pkg.IssueTrackerURL,
		VCSURL:                 pkg.VCSURL,
		GitHubRepo:             pkg.GitHubRepo,
		GitHubReleaseNotesFile: pkg.GitHubReleaseNotesFile,
		PublicDownloadNumbers:  pkg.PublicDownloadNumbers,
		PublicStats:            pkg.PublicStats,
		Maturity:               pkg.Maturity,
	}
	if create {
		p.Name = pkg.Name
	}
	return p
}

type versionPayload struct {
	Name                     string `json:"name,omitempty"`
	Desc                     string `json:"desc,omitempty"`
	Released                 string `json:"released,omitempty"`
	VCSTag                   string `json:"vcs_tag,omitempty"`
	GitHubReleaseNotesFile   string `json:"github_release_notes_file,omitempty"`
	GitHubUseTagReleaseNotes *bool  `json:"github_use_tag_release_notes,omitempty"`
}

func newVersionPayload(v *domain.Version, create bool) versionPayload {
	p := versionPayload{
		Desc:                     v.Desc,
		Released:                 v.Released,
		VCSTag:                   v.VCSTag,
		GitHubReleaseNotesFile:   v.GitHubReleaseNotesFile,
		GitHubUseTagReleaseNotes: v.GitHubUseTagReleaseNotes,
	}
	if create {
		p.Name = v.Name
	}
	return p
}

type publishPayload struct {
	Discard        bool `json:"discard"`
	WaitForSeconds *int `json:"publish_wait_for_secs,omitempty"`
}

type publishResponse struct {
	Files int `json:"files"`
}

type fileMetadataPayload struct {
	ListInDownloads bool `json:"list_in_downloads"`
}

// statusBody is the shape of both error bodies and write acknowledgements.
type statusBody struct {
	Message string `json:"message"`
	Warn    string `json:"warn"`
}
