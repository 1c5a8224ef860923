/*
Package retry runs fallible operations with bounded attempts and
exponential backoff.

Node functions wrap flaky calls (HTTP fetches, model invocations, trace
writes) so transient failures do not abort a whole graph run:

	res := retry.Do(ctx, retry.Default, func(ctx context.Context) (string, error) {
	    return fetchQuote(ctx, symbol)
	})
	if res.Err != nil {
	    return nil, res.Err
	}

Context cancellation ends the loop immediately, including mid-backoff,
and is reported unwrapped so errors.Is(res.Err, context.Canceled) works.
*/
package retry
