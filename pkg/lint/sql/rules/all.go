package rules

// All rules are registered via init() functions in their respective files.
// Importing this package registers:
//
// Ambiguous rules:
//   - AM01: Invalid Group By - Selected columns must be grouped or aggregated
//
// Convention rules:
//   - CV01: Current Date - CURRENT_DATE makes results depend on the run date
//
// Performance rules:
//   - PF01: Table Suffix Subquery - _TABLE_SUFFIX compared with a subquery
//
// Structure rules:
//   - ST01: Unused CTE Column - CTE column is never read downstream
//   - ST02: Unnecessary Order By - ORDER BY without LIMIT in a CTE or subquery
