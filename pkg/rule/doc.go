// Package rule defines the unit of conformance checking: a named rule that
// inspects one repository and yields a pass or fail result.
//
// Rules are static values built with [Build]. A rule may declare other rules
// as dependencies; the engine nests a rule's dependencies beneath it in the
// rule tree, but a dependency's outcome never prevents its dependent from
// running.
//
//	var RequireTsConfig = rule.Build(rule.Definition{
//	    Name:         rule.RequireTsConfig,
//	    Description:  "Does the project have a tsconfig.json?",
//	    Dependencies: []rule.Name{rule.RequireSourceDirectory},
//	    Verify: func(h rule.Helpers) rule.VerifyFunc {
//	        return func(ctx context.Context, rc rule.Context) (rule.Result, error) {
//	            ok, err := cache.Fetch[bool](ctx, rc.Cache, "hasTsConfig")
//	            if err != nil {
//	                return nil, err
//	            }
//	            if !ok {
//	                return h.Fail(rule.Failure{Message: "..."}), nil
//	            }
//	            return h.Pass(), nil
//	        }
//	    },
//	})
//
// A [Result] is either [Passed] or [Failed]; use a type switch to tell them
// apart, or [Result.Passed] when only the outcome matters.
package rule
