package runtime

// preludeForms are evaluated into every new evaluator. Comparisons yield 0
// or 1 and both are true for if, so truth folds 0 into nil first.
var preludeForms = []string{
	`(def truth (fn (c) (car (filter (fn (x) x) (list c)))))`,
	`(def not (fn (x) (if (truth x) nil 1)))`,
	`(def nth (fn (l n) (if (truth (= n 0)) (car l) (nth (cdr l) (- n 1)))))`,
	`(def httpd-get (fn (path body) (concat "no handler for GET " path)))`,
	`(def httpd-post (fn (path body) (concat "no handler for POST " path)))`,
}
