package hooks

// Hook keys as they appear as the leading token of a hook command.
// Keys come in pairs: the bare key runs the hook, the -print variant
// only reports what would happen.
const (
	KeyQuicknet          = "@quicknet"
	KeyQuicknetPrint     = "@quicknet-print"
	KeyMkinitcpio        = "@mkinitcpio"
	KeyMkinitcpioPrint   = "@mkinitcpio-print"
	KeyReplaceToken      = "@replace-token"
	KeyReplaceTokenPrint = "@replace-token-print"
	KeyUncomment         = "@uncomment"
	KeyUncommentPrint    = "@uncomment-print"
	KeyUncommentAll      = "@uncomment-all"
	KeyUncommentAllPrint = "@uncomment-all-print"
	KeyWrapperMnt        = "@mnt"
	KeyWrapperNoMnt      = "@no-mnt"
)

// printSuffix turns a base key into its print-mode sibling.
const printSuffix = "-print"
