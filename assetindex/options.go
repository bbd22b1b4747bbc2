package assetindex

// DependencyOptions selects which kinds of references a dependency lookup
// follows. It is a plain value; copies never alias.
type DependencyOptions struct {
	SoftPackageReferences    bool
	HardPackageReferences    bool
	SearchableNames          bool
	SoftManagementReferences bool
	HardManagementReferences bool
}

// DefaultDependencyOptions follows soft and hard package references only.
var DefaultDependencyOptions = DependencyOptions{
	SoftPackageReferences:    true,
	HardPackageReferences:    true,
	SearchableNames:          false,
	SoftManagementReferences: false,
	HardManagementReferences: false,
}
