package outward_challan

// NumberPrefix is used for generated challan numbers (CHL-001).
const NumberPrefix = "CHL"

const displayName = "outward challan"
