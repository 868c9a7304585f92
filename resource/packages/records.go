package packages

import (
	"context"
	"reflect"
	"slices"

	bterrors "github.com/rabbitmq/concourse-bintray-resources/bintray/errors"
	"github.com/rabbitmq/concourse-bintray-resources/domain"
	"github.com/rabbitmq/concourse-bintray-resources/resource"
)

// syncPackage creates the package record, or updates it when props change
// any attribute. Attributes absent from props keep their current value.
func (r *Resource) syncPackage(ctx context.Context, env *resource.Env, client Client, src *Source, props *packageProps) error {
	coords := src.Coordinates()

	current, err := client.GetPackage(ctx, coords)
	exists := err == nil
	switch {
	case bterrors.IsNotFound(err):
		current = &domain.Package{Name: src.Package}
	case err != nil:
		return err
	}

	desired := clonePackage(current)
	if props != nil {
		if err := applyPackageProps(env.Resolver, desired, props); err != nil {
			return err
		}
	}

	switch {
	case !exists:
		env.Logger.Info("creating package record", "package", coords.String())
		_, err = client.CreatePackage(ctx, coords, desired)
	case !reflect.DeepEqual(current, desired):
		env.Logger.Info("updating package record", "package", coords.String())
		_, err = client.UpdatePackage(ctx, coords, desired)
	default:
		env.Logger.Info("package record up-to-date", "package", coords.String())
	}
	return err
}

func applyPackageProps(res *resource.Resolver, pkg *domain.Package, props *packageProps) error {
	strs := []struct {
		src *resource.StringOrFile
		dst *string
	}{
		{props.Desc, &pkg.Desc},
		{props.WebsiteURL, &pkg.WebsiteURL},
		{props.IssueTrackerURL, &pkg.IssueTrackerURL},
		{props.VCSURL, &pkg.VCSURL},
		{props.GitHubRepo, &pkg.GitHubRepo},
		{props.GitHubReleaseNotesFile, &pkg.GitHubReleaseNotesFile},
	}
	for _, s := range strs {
		if err := setString(res, s.src, s.dst); err != nil {
			return err
		}
	}

	lists := []struct {
		src *resource.StringListOrFile
		dst *[]string
	}{
		{props.Labels, &pkg.Labels},
		{props.Licenses, &pkg.Licenses},
		{props.CustomLicenses, &pkg.CustomLicenses},
	}
	for _, l := range lists {
		if err := setSortedList(res, l.src, l.dst); err != nil {
			return err
		}
	}

	if props.Maturity != nil {
		maturity, err := res.String(props.Maturity)
		if err != nil {
			return err
		}
		pkg.Maturity = domain.ParsePackageMaturity(maturity)
	}
	if props.PublicDownloadNumbers != nil {
		pkg.PublicDownloadNumbers = *props.PublicDownloadNumbers
	}
	if props.PublicStats != nil {
		pkg.PublicStats = *props.PublicStats
	}
	return nil
}

// syncVersion creates the version record, or updates it when props change
// any attribute.
func (r *Resource) syncVersion(ctx context.Context, env *resource.Env, client Client, coords domain.Coordinates, props *versionProps) error {
	current, err := client.GetVersion(ctx, coords)
	exists := err == nil
	switch {
	case bterrors.IsNotFound(err):
		current = &domain.Version{Name: coords.Version, Package: coords.Package}
	case err != nil:
		return err
	}

	desired := *current
	if props != nil {
		strs := []struct {
			src *resource.StringOrFile
			dst *string
		}{
			{props.Desc, &desired.Desc},
			{props.Released, &desired.Released},
			{props.VCSTag, &desired.VCSTag},
			{props.GitHubReleaseNotesFile, &desired.GitHubReleaseNotesFile},
		}
		for _, s := range strs {
			if err := setString(env.Resolver, s.src, s.dst); err != nil {
				return err
			}
		}
		if props.GitHubUseTagReleaseNotes != nil {
			use := *props.GitHubUseTagReleaseNotes
			desired.GitHubUseTagReleaseNotes = &use
		}
	}

	switch {
	case !exists:
		env.Logger.Info("creating version record", "version", coords.String())
		_, err = client.CreateVersion(ctx, coords, &desired)
	case !reflect.DeepEqual(*current, desired):
		env.Logger.Info("updating version record", "version", coords.String())
		_, err = client.UpdateVersion(ctx, coords, &desired)
	default:
		env.Logger.Info("version record up-to-date", "version", coords.String())
	}
	return err
}

func setString(res *resource.Resolver, src *resource.StringOrFile, dst *string) error {
	if src == nil {
		return nil
	}
	v, err := res.String(src)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setSortedList(res *resource.Resolver, src *resource.StringListOrFile, dst *[]string) error {
	if src == nil {
		return nil
	}
	v, err := res.List(src)
	if err != nil {
		return err
	}
	if len(v) == 0 {
		*dst = nil
		return nil
	}
	v = slices.Clone(v)
	slices.Sort(v)
	*dst = v
	return nil
}

func clonePackage(p *domain.Package) *domain.Package {
	c := *p
	c.Labels = slices.Clone(p.Labels)
	c.Licenses = slices.Clone(p.Licenses)
	c.CustomLicenses = slices.Clone(p.CustomLicenses)
	c.Versions = slices.Clone(p.Versions)
	return &c
}
