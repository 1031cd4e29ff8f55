package scaling

import "github.com/johnayoung/go-defi-engine/pkg/errkinds"

// GetCollateralProcessor dispatches aToken revisions to a CollateralProcessor,
// grounded on aave/processors/factory.py's TokenProcessorFactory. Revisions 1
// and 3 share CollateralV1Processor (half-up ray_div) per
// aave/libraries/token_math.py's TokenMathV1, which groups pool revisions 1-3
// under identical rounding; revisions 4 and 5+ share CollateralV5Processor
// since TokenMathV4 and TokenMathV5 apply the same floor-mint/ceil-burn rule.
// No collateral/v3.py or collateral/v4.py source file was retrieved, but
// token_math.py's formulas make the collapse exact, not approximate.
func GetCollateralProcessor(revision int) (CollateralProcessor, error) {
	switch {
	case revision == 1 || revision == 3:
		return CollateralV1Processor{}, nil
	case revision >= 4:
		return CollateralV5Processor{}, nil
	default:
		return nil, &errkinds.UnsupportedRevision{Revision: revision}
	}
}

// GetDebtProcessor dispatches vToken revisions to a DebtProcessor under the
// same revision grouping as GetCollateralProcessor.
func GetDebtProcessor(revision int) (DebtProcessor, error) {
	switch {
	case revision == 1 || revision == 3:
		return DebtV1Processor{}, nil
	case revision >= 4:
		return DebtV4Processor{}, nil
	default:
		return nil, &errkinds.UnsupportedRevision{Revision: revision}
	}
}

// GetGhoProcessor dispatches GHO variable debt token revisions to a
// GhoProcessor, grounded on factory.py's GHO_PROCESSORS table: revision 1 is
// GhoV1Processor, revisions 2-3 share GhoV2Processor's full-repayment
// detection, and revisions 4-6 share GhoV4Processor's no-discount rounding.
// Revisions above 6 are treated as GhoV4Processor-equivalent since the
// discount mechanism was never reintroduced.
func GetGhoProcessor(revision int) (GhoProcessor, error) {
	switch {
	case revision == 1:
		return GhoV1Processor{}, nil
	case revision == 2 || revision == 3:
		return GhoV2Processor{}, nil
	case revision >= 4:
		return GhoV4Processor{}, nil
	default:
		return nil, &errkinds.UnsupportedRevision{Revision: revision}
	}
}
