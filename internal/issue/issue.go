// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	InvalidModuleId
	MissingFieldId
	InvalidSyntaxId
	InvalidPackageId
	ManifestExistsId
	BundleExistsId
	InvalidBundleId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

bao could not find the path you passed.

## Things you can try:
- Check the spelling of the path
- Use an absolute path, or run bao from the directory holding the script`,
	}

	invalidModuleIssue = &Issue{
		id: InvalidModuleId,
		mdMsg: `
# Not a Python module!

bao packages either a single script or a package directory.

## Accepted sources:
1. A regular file ending in ` + "`.py`" + `
2. A directory containing a regular ` + "`__init__.py`" + ` file

## Things you can try:
~~~
$ bao check ./weather.py
~~~`,
		extLinks: []HttpLink{"https://docs.python.org/3/tutorial/modules.html#packages"},
	}

	missingFieldIssue = &Issue{
		id: MissingFieldId,
		mdMsg: `
# A required attribute is missing!

Every bundle needs a **name**, **version**, **author** and **license**.
The name defaults to the script file name; the others must come from
somewhere.

## Things you can try:
- Declare it in the script:
~~~python
__version__ = "1.0.0"
__author__ = "Jane Doe"
__license__ = "MIT"
~~~
- Write it into the bao.toml next to the script:
~~~
$ bao init ./weather.py
~~~
- Set a default for all packages in your config file:
~~~cue
defaults: {
	author:  "Jane Doe"
	license: "MIT"
}
~~~`,
	}

	invalidSyntaxIssue = &Issue{
		id: InvalidSyntaxId,
		mdMsg: `
# The script is not valid Python!

bao parses the script to find its docstring and stops at the first
syntax error. The error message shows the line and column.

## Things you can try:
- Run the script with your Python interpreter to see the full error
- Check for unclosed brackets or strings above the reported line`,
	}

	invalidPackageIssue = &Issue{
		id: InvalidPackageId,
		mdMsg: `
# Package metadata is invalid!

The resolved metadata did not pass validation.

## Rules:
- **name** uses letters, digits, ` + "`.`, `_` and `-`" + ` and starts and ends with a letter or digit
- **version** contains no whitespace
- **email** is empty or looks like an address
- entries of **pip_requires** are not blank`,
	}

	manifestExistsIssue = &Issue{
		id: ManifestExistsId,
		mdMsg: `
# bao.toml already exists!

` + "`bao init`" + ` will not overwrite existing metadata.

## Things you can try:
~~~
$ bao init --force ./weather.py
~~~`,
	}

	bundleExistsIssue = &Issue{
		id: BundleExistsId,
		mdMsg: `
# Bundle already unpacked!

The destination already contains the bundle's root directory.

## Things you can try:
~~~
$ bao unpack --overwrite weather-1.2.3.bao.zip
~~~
- Or pick another destination with ` + "`-d`",
	}

	invalidBundleIssue = &Issue{
		id: InvalidBundleId,
		mdMsg: `
# Not a bao bundle!

A bundle is a ZIP file whose entries all live under one directory,
for example ` + "`weather-1.2.3/`" + `. Entries that point outside that
directory are refused.

## Things you can try:
- Rebuild the bundle with ` + "`bao build`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show the file bao reads:
~~~
$ bao config path
~~~
- Regenerate a default file:
~~~
$ bao config init --force
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/tour/"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

bao could not read the sources or write the output.

## Things you can try:
- Check the permissions of the source and output directories
- Pick another output directory with ` + "`bao build -o <dir>`",
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():     fileNotFoundIssue,
		invalidModuleIssue.Id():    invalidModuleIssue,
		missingFieldIssue.Id():     missingFieldIssue,
		invalidSyntaxIssue.Id():    invalidSyntaxIssue,
		invalidPackageIssue.Id():   invalidPackageIssue,
		manifestExistsIssue.Id():   manifestExistsIssue,
		bundleExistsIssue.Id():     bundleExistsIssue,
		invalidBundleIssue.Id():    invalidBundleIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		permissionDeniedIssue.Id(): permissionDeniedIssue,
	}
)

// Values returns all issues ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
