package formula

import (
	"math"
	"strconv"

	"github.com/njchilds90/alevel/symbolic"
)

const (
	gravitationalConstant = 6.674e-11
	standardGravity       = 9.81
	planckConstant        = 6.626e-34
	speedOfLight          = 3e8
	gasConstant           = 8.314
)

func req(name, desc, unit string) Input { return Input{Name: name, Description: desc, Unit: unit} }

func opt(name, desc, unit string) Input {
	return Input{Name: name, Description: desc, Unit: unit, Optional: true}
}

func def(name, desc, unit string, v float64) Input {
	return Input{Name: name, Description: desc, Unit: unit, Optional: true, HasDefault: true, Default: v}
}

func sinDeg(d float64) float64 { return math.Sin(d * math.Pi / 180) }
func cosDeg(d float64) float64 { return math.Cos(d * math.Pi / 180) }
func asinDeg(s float64) float64 { return math.Asin(s) * 180 / math.Pi }

// Default returns a registry holding every built-in formula.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(pureMaths()...)
	r.MustRegister(mechanics()...)
	r.MustRegister(statistics()...)
	r.MustRegister(physics()...)
	return r
}

// ============================================================
// Pure mathematics
// ============================================================

func pureMaths() []Formula {
	m := Mathematics
	return []Formula{
		New("quadratic", m, "Algebra and Functions", "Quadratic Formula",
			"x = [-b ± sqrt(b^2 - 4ac)] / (2a)", "Solves ax^2 + bx + c = 0",
			[]Input{req("a", "coefficient of x^2", ""), req("b", "coefficient of x", ""), req("c", "constant term", "")},
			func(v Values) (Result, error) {
				a, b, c := v.Get("a"), v.Get("b"), v.Get("c")
				if a == 0 {
					return Result{}, domainErr("a cannot be zero")
				}
				disc := b*b - 4*a*c
				if disc < 0 {
					return Result{Note: "No real roots"}, nil
				}
				sq := math.Sqrt(disc)
				return Result{Values: []Quantity{
					{Symbol: "x1", Value: (-b + sq) / (2 * a)},
					{Symbol: "x2", Value: (-b - sq) / (2 * a)},
				}}, nil
			}),
		New("distance", m, "Coordinate Geometry", "Distance Between Points",
			"d = sqrt((x2 - x1)^2 + (y2 - y1)^2)", "Distance between (x1, y1) and (x2, y2)",
			[]Input{req("x1", "", ""), req("y1", "", ""), req("x2", "", ""), req("y2", "", "")},
			func(v Values) (Result, error) {
				return single("d", math.Hypot(v.Get("x2")-v.Get("x1"), v.Get("y2")-v.Get("y1")), ""), nil
			}),
		New("arithmetic-nth-term", m, "Sequences and Series", "Arithmetic nth Term",
			"a_n = a_1 + (n-1)d", "nth term of an arithmetic sequence",
			[]Input{req("a_1", "first term", ""), req("d", "common difference", ""), req("n", "term number", "")},
			func(v Values) (Result, error) {
				n := v.Get("n")
				if n < 1 || n != math.Trunc(n) {
					return Result{}, domainErr("n must be a positive integer")
				}
				return single("a_n", v.Get("a_1")+(n-1)*v.Get("d"), ""), nil
			}),
		New("power-rule-differentiation", m, "Differentiation", "Power Rule",
			"d/dx[x^n] = n*x^(n-1)", "Differentiate x^n with respect to x",
			[]Input{req("n", "exponent", "")},
			func(v Values) (Result, error) {
				xn := symbolic.PowOf(symbolic.S("x"), symbolic.NFloat(v.Get("n")))
				d := symbolic.Diff(xn, "x")
				return Result{Expression: "d/dx[" + xn.String() + "] = " + d.String()}, nil
			}),
		New("power-rule-integration", m, "Integration", "Power Rule",
			"∫x^n dx = x^(n+1)/(n+1) + C, n ≠ -1", "Integrate x^n with respect to x",
			[]Input{req("n", "exponent", "")},
			func(v Values) (Result, error) {
				xn := symbolic.PowOf(symbolic.S("x"), symbolic.NFloat(v.Get("n")))
				integral, ok := symbolic.Integrate(xn, "x")
				if !ok {
					return Result{}, domainErr("no antiderivative for %s", xn)
				}
				res := Result{Expression: "∫" + xn.String() + " dx = " + integral.String() + " + C"}
				if v.Get("n") == -1 {
					res.Note = "n = -1 integrates to a logarithm"
				}
				return res, nil
			}),
		New("sine-rule", m, "Trigonometry", "Sine Rule",
			"a/sin(A) = b/sin(B) = c/sin(C)", "Relates sides and angles in any triangle; leave out exactly one value, angles in degrees",
			[]Input{opt("a", "side", ""), opt("A", "angle opposite a", "°"), opt("b", "side", ""),
				opt("B", "angle opposite b", "°"), opt("c", "side", ""), opt("C", "angle opposite c", "°")},
			sineRule),
		New("log-product", m, "Exponentials and Logarithms", "Laws of Logs",
			"log_a(xy) = log_a(x) + log_a(y)", "Product law for logarithms",
			[]Input{req("x", "", ""), req("y", "", ""), def("a", "base", "", math.E)},
			func(v Values) (Result, error) {
				x, y, a := v.Get("x"), v.Get("y"), v.Get("a")
				switch {
				case x*y <= 0:
					return Result{}, domainErr("xy must be positive")
				case a <= 0 || a == 1:
					return Result{}, domainErr("base must be positive and not 1")
				}
				return single("log_a(xy)", math.Log(x*y)/math.Log(a), ""), nil
			}),
		New("vector-magnitude", m, "Vectors", "Magnitude",
			"|a| = sqrt(a1^2 + a2^2 + a3^2)", "Magnitude of vector a",
			[]Input{req("a1", "", ""), req("a2", "", ""), def("a3", "", "", 0)},
			func(v Values) (Result, error) {
				a1, a2, a3 := v.Get("a1"), v.Get("a2"), v.Get("a3")
				return single("|a|", math.Sqrt(a1*a1+a2*a2+a3*a3), ""), nil
			}),
		New("newton-raphson", m, "Numerical Methods", "Newton-Raphson",
			"x_{n+1} = x_n - f(x_n)/f'(x_n)", "Root-finding iterative method",
			[]Input{req("x_n", "current estimate", ""), req("f(x_n)", "", ""), req("f'(x_n)", "", "")},
			func(v Values) (Result, error) {
				fp := v.Get("f'(x_n)")
				if fp == 0 {
					return Result{}, domainErr("f'(x_n) cannot be zero")
				}
				return single("x_{n+1}", v.Get("x_n")-v.Get("f(x_n)")/fp, ""), nil
			}),
	}
}

func sineRule(v Values) (Result, error) {
	pairs := [3][2]string{{"a", "A"}, {"b", "B"}, {"c", "C"}}
	var missing string
	count := 0
	for _, p := range pairs {
		for _, name := range p {
			if !v.Has(name) {
				missing, count = name, count+1
			}
		}
	}
	if count != 1 {
		return Result{}, domainErr("provide all but one of a, A, b, B, c, C")
	}
	var ratio float64
	found := false
	for _, p := range pairs {
		if v.Has(p[0]) && v.Has(p[1]) {
			s := sinDeg(v.Get(p[1]))
			if s == 0 {
				return Result{}, domainErr("angle %s must not be a multiple of 180°", p[1])
			}
			ratio, found = v.Get(p[0])/s, true
			break
		}
	}
	if !found {
		return Result{}, domainErr("need one complete side and angle pair")
	}
	for _, p := range pairs {
		switch missing {
		case p[0]:
			return single(p[0], ratio*sinDeg(v.Get(p[1])), ""), nil
		case p[1]:
			s := v.Get(p[0]) / ratio
			if s < -1 || s > 1 {
				return Result{}, domainErr("no triangle has these measurements")
			}
			res := single(p[1], asinDeg(s), "°")
			res.Note = "acute solution; the obtuse angle 180° - " + p[1] + " may also fit"
			return res, nil
		}
	}
	return Result{}, domainErr("provide all but one of a, A, b, B, c, C")
}

// ============================================================
// Mechanics (mathematics)
// ============================================================

func mechanics() []Formula {
	m := Mathematics
	return []Formula{
		New("suvat-velocity", m, "Kinematics", "SUVAT (v = u + at)",
			"v = u + at", "Final velocity from initial velocity, acceleration, and time",
			[]Input{req("u", "initial velocity", "m/s"), req("a", "acceleration", "m/s²"), req("t", "time", "s")},
			func(v Values) (Result, error) {
				return single("v", v.Get("u")+v.Get("a")*v.Get("t"), "m/s"), nil
			}),
		New("newtons-second-law", m, "Forces and Newton's Laws", "Newton's Second Law",
			"F = ma", "Force equals mass times acceleration",
			[]Input{req("m", "mass", "kg"), req("a", "acceleration", "m/s²")},
			func(v Values) (Result, error) { return single("F", v.Get("m")*v.Get("a"), "N"), nil }),
		New("moment", m, "Moments", "Moment",
			"Moment = F × d", "Moment of a force about a point",
			[]Input{req("F", "force", "N"), req("d", "perpendicular distance", "m")},
			func(v Values) (Result, error) { return single("M", v.Get("F")*v.Get("d"), "N m"), nil }),
		New("kinetic-energy", m, "Energy and Work", "Kinetic Energy",
			"KE = 0.5 * m * v^2", "Kinetic energy of a moving object",
			[]Input{req("m", "mass", "kg"), req("v", "speed", "m/s")},
			func(v Values) (Result, error) {
				s := v.Get("v")
				return single("KE", 0.5*v.Get("m")*s*s, "J"), nil
			}),
		New("conservation-of-momentum", m, "Collisions", "Conservation of Momentum",
			"m1*u1 + m2*u2 = m1*v1 + m2*v2", "Final velocity of the second body",
			[]Input{req("m1", "", "kg"), req("u1", "", "m/s"), req("m2", "", "kg"), req("u2", "", "m/s"), req("v1", "", "m/s")},
			func(v Values) (Result, error) {
				m1, m2 := v.Get("m1"), v.Get("m2")
				if m2 == 0 {
					return Result{}, domainErr("m2 cannot be zero")
				}
				before := m1*v.Get("u1") + m2*v.Get("u2")
				return Result{Values: []Quantity{
					{Symbol: "v2", Value: (before - m1*v.Get("v1")) / m2, Unit: "m/s"},
					{Symbol: "p", Value: before, Unit: "kg m/s"},
				}}, nil
			}),
		New("centripetal-force", m, "Circular Motion", "Centripetal Force",
			"F = m*v^2/r", "Force required for circular motion",
			[]Input{req("m", "mass", "kg"), req("v", "speed", "m/s"), req("r", "radius", "m")},
			func(v Values) (Result, error) {
				r := v.Get("r")
				if r <= 0 {
					return Result{}, domainErr("r must be positive")
				}
				s := v.Get("v")
				return single("F", v.Get("m")*s*s/r, "N"), nil
			}),
		New("shm-acceleration", m, "Simple Harmonic Motion", "SHM Equation",
			"a = -ω^2 x", "Acceleration in simple harmonic motion",
			[]Input{req("ω", "angular frequency", "rad/s"), req("x", "displacement", "m")},
			func(v Values) (Result, error) {
				w := v.Get("ω")
				return single("a", -w*w*v.Get("x"), "m/s²"), nil
			}),
	}
}

// ============================================================
// Statistics
// ============================================================

func statistics() []Formula {
	m := Mathematics
	return []Formula{
		New("mean", m, "Data Presentation", "Mean",
			"mean = (Σx) / n", "Arithmetic mean of data",
			[]Input{req("Σx", "sum of values", ""), req("n", "number of values", "")},
			func(v Values) (Result, error) {
				n := v.Get("n")
				if n <= 0 {
					return Result{}, domainErr("n must be positive")
				}
				return single("mean", v.Get("Σx")/n, ""), nil
			}),
		New("probability", m, "Probability", "Probability",
			"P(A) = favourable outcomes / total outcomes", "Basic probability",
			[]Input{req("favourable", "", ""), req("total", "", "")},
			func(v Values) (Result, error) {
				fav, total := v.Get("favourable"), v.Get("total")
				if total <= 0 || fav < 0 || fav > total {
					return Result{}, domainErr("need 0 <= favourable <= total and total > 0")
				}
				return single("P(A)", fav/total, ""), nil
			}),
		New("expected-value-term", m, "Discrete Random Variables", "Expected Value",
			"E(X) = Σ[x * P(x)]", "Contribution of one outcome to the expected value",
			[]Input{req("x", "outcome", ""), req("P(x)", "probability", "")},
			func(v Values) (Result, error) {
				p := v.Get("P(x)")
				if p < 0 || p > 1 {
					return Result{}, domainErr("P(x) must lie in [0, 1]")
				}
				return single("x P(x)", v.Get("x")*p, ""), nil
			}),
		New("binomial", m, "Binomial Distribution", "Binomial Probability",
			"P(X = r) = nCr * p^r * (1-p)^(n-r)", "Probability of r successes in n trials",
			[]Input{req("n", "trials", ""), req("r", "successes", ""), req("p", "success probability", "")},
			func(v Values) (Result, error) {
				n, r, p := v.Get("n"), v.Get("r"), v.Get("p")
				switch {
				case n < 0 || n != math.Trunc(n) || r < 0 || r != math.Trunc(r):
					return Result{}, domainErr("n and r must be non-negative integers")
				case r > n:
					return Result{}, domainErr("r cannot exceed n")
				case p < 0 || p > 1:
					return Result{}, domainErr("p must lie in [0, 1]")
				}
				return single("P(X = r)", choose(n, r)*math.Pow(p, r)*math.Pow(1-p, n-r), ""), nil
			}),
		New("z-score", m, "Normal Distribution", "Standardization",
			"z = (x - μ) / σ", "Standardizing a normal variable",
			[]Input{req("x", "", ""), req("μ", "mean", ""), req("σ", "standard deviation", "")},
			func(v Values) (Result, error) {
				s := v.Get("σ")
				if s <= 0 {
					return Result{}, domainErr("σ must be positive")
				}
				return single("z", (v.Get("x")-v.Get("μ"))/s, ""), nil
			}),
		New("test-statistic", m, "Hypothesis Testing", "Test Statistic",
			"z = (x̄ - μ) / (σ/√n)", "Test statistic for a sample mean",
			[]Input{req("x̄", "sample mean", ""), req("μ", "population mean", ""), req("σ", "standard deviation", ""), req("n", "sample size", "")},
			func(v Values) (Result, error) {
				s, n := v.Get("σ"), v.Get("n")
				if s <= 0 || n <= 0 {
					return Result{}, domainErr("σ and n must be positive")
				}
				return single("z", (v.Get("x̄")-v.Get("μ"))/(s/math.Sqrt(n)), ""), nil
			}),
	}
}

func choose(n, r float64) float64 {
	c := 1.0
	for i := 1.0; i <= r; i++ {
		c = c * (n - r + i) / i
	}
	return c
}

// ============================================================
// Physics
// ============================================================

func physics() []Formula {
	p := Physics
	return []Formula{
		New("weight", p, "Motion and Forces", "Weight",
			"W = mg", "Weight of a mass in a gravitational field",
			[]Input{req("m", "mass", "kg"), def("g", "gravitational field strength", "N/kg", standardGravity)},
			func(v Values) (Result, error) { return single("W", v.Get("m")*v.Get("g"), "N"), nil }),
		New("work-done", p, "Work, Energy and Power", "Work Done",
			"W = Fd", "Work done by a force",
			[]Input{req("F", "force", "N"), req("d", "distance", "m")},
			func(v Values) (Result, error) { return single("W", v.Get("F")*v.Get("d"), "J"), nil }),
		New("impulse", p, "Momentum and Impulse", "Impulse",
			"Impulse = FΔt = Δp", "Impulse equals change in momentum",
			[]Input{req("F", "force", "N"), req("Δt", "time", "s")},
			func(v Values) (Result, error) { return single("Δp", v.Get("F")*v.Get("Δt"), "N s"), nil }),
		New("gravitational-force", p, "Gravitational Fields", "Gravitational Force",
			"F = G * m1 * m2 / r^2", "Newton's law of gravitation",
			[]Input{req("m1", "", "kg"), req("m2", "", "kg"), req("r", "separation", "m")},
			func(v Values) (Result, error) {
				r := v.Get("r")
				if r <= 0 {
					return Result{}, domainErr("r must be positive")
				}
				return single("F", gravitationalConstant*v.Get("m1")*v.Get("m2")/(r*r), "N"), nil
			}),
		New("gravitational-field-strength", p, "Gravitational Fields", "Gravitational Field Strength",
			"g = GM / r^2", "Field strength at distance r from a point mass",
			[]Input{req("M", "mass", "kg"), req("r", "distance", "m")},
			func(v Values) (Result, error) {
				r := v.Get("r")
				if r <= 0 {
					return Result{}, domainErr("r must be positive")
				}
				return single("g", gravitationalConstant*v.Get("M")/(r*r), "N/kg"), nil
			}),
		New("current", p, "Electric Current", "Current",
			"I = Q / t", "Current is charge per unit time",
			[]Input{req("Q", "charge", "C"), req("t", "time", "s")},
			func(v Values) (Result, error) {
				if v.Get("t") <= 0 {
					return Result{}, domainErr("t must be positive")
				}
				return single("I", v.Get("Q")/v.Get("t"), "A"), nil
			}),
		New("ohms-law", p, "Resistance and Resistivity", "Ohm's Law",
			"V = IR", "Voltage equals current times resistance",
			[]Input{req("I", "current", "A"), req("R", "resistance", "Ω")},
			func(v Values) (Result, error) { return single("V", v.Get("I")*v.Get("R"), "V"), nil }),
		New("capacitance", p, "Capacitors", "Capacitance",
			"C = Q / V", "Capacitance is charge per unit voltage",
			[]Input{req("Q", "charge", "C"), req("V", "potential difference", "V")},
			func(v Values) (Result, error) {
				if v.Get("V") == 0 {
					return Result{}, domainErr("V cannot be zero")
				}
				return single("C", v.Get("Q")/v.Get("V"), "F"), nil
			}),
		New("force-on-wire", p, "Magnetic Fields", "Force on a Wire",
			"F = BIL sinθ", "Force on a current-carrying wire in a magnetic field",
			[]Input{req("B", "flux density", "T"), req("I", "current", "A"), req("L", "length", "m"), req("θ", "angle to field", "°")},
			func(v Values) (Result, error) {
				return single("F", v.Get("B")*v.Get("I")*v.Get("L")*sinDeg(v.Get("θ")), "N"), nil
			}),
		New("faraday", p, "Electromagnetic Induction", "Faraday's Law",
			"E = -dΦ/dt", "Induced EMF equals rate of change of flux linkage",
			[]Input{req("dΦ", "change in flux linkage", "Wb"), req("dt", "time", "s")},
			func(v Values) (Result, error) {
				if v.Get("dt") <= 0 {
					return Result{}, domainErr("dt must be positive")
				}
				return single("E", -v.Get("dΦ")/v.Get("dt"), "V"), nil
			}),
		New("wave-speed", p, "Wave Properties", "Wave Speed",
			"v = fλ", "Wave speed equals frequency times wavelength",
			[]Input{req("f", "frequency", "Hz"), req("λ", "wavelength", "m")},
			func(v Values) (Result, error) { return single("v", v.Get("f")*v.Get("λ"), "m/s"), nil }),
		New("double-slit", p, "Interference and Diffraction", "Double Slit",
			"w = λD / s", "Fringe spacing in double-slit experiment",
			[]Input{req("λ", "wavelength", "m"), req("D", "slit to screen distance", "m"), req("s", "slit separation", "m")},
			func(v Values) (Result, error) {
				if v.Get("s") <= 0 {
					return Result{}, domainErr("s must be positive")
				}
				return single("w", v.Get("λ")*v.Get("D")/v.Get("s"), "m"), nil
			}),
		New("fundamental-frequency", p, "Standing Waves", "Fundamental Frequency",
			"f = v / 2L", "Fundamental frequency of a string",
			[]Input{req("v", "wave speed", "m/s"), req("L", "length", "m")},
			func(v Values) (Result, error) {
				if v.Get("L") <= 0 {
					return Result{}, domainErr("L must be positive")
				}
				return single("f", v.Get("v")/(2*v.Get("L")), "Hz"), nil
			}),
		New("speed-of-sound", p, "Sound Waves", "Speed of Sound",
			"v = sqrt(γRT / M)", "Speed of sound in a gas",
			[]Input{req("γ", "adiabatic index", ""), def("R", "gas constant", "J/(mol K)", gasConstant), req("T", "temperature", "K"), req("M", "molar mass", "kg/mol")},
			func(v Values) (Result, error) {
				m := v.Get("M")
				if m <= 0 {
					return Result{}, domainErr("M must be positive")
				}
				x := v.Get("γ") * v.Get("R") * v.Get("T") / m
				if x < 0 {
					return Result{}, domainErr("γRT/M must not be negative")
				}
				return single("v", math.Sqrt(x), "m/s"), nil
			}),
		New("snells-law", p, "Light and Optics", "Snell's Law",
			"n1 sinθ1 = n2 sinθ2", "Law of refraction; leave out exactly one value, angles in degrees",
			[]Input{opt("n1", "", ""), opt("θ1", "", "°"), opt("n2", "", ""), opt("θ2", "", "°")},
			snell),
		New("malus", p, "Polarisation", "Malus' Law",
			"I = I0 cos^2θ", "Intensity after polariser",
			[]Input{req("I0", "incident intensity", "W/m²"), req("θ", "angle", "°")},
			func(v Values) (Result, error) {
				c := cosDeg(v.Get("θ"))
				return single("I", v.Get("I0")*c*c, "W/m²"), nil
			}),
		New("specific-heat", p, "Temperature and Heat", "Specific Heat Capacity",
			"Q = mcΔT", "Heat energy to change temperature",
			[]Input{req("m", "mass", "kg"), req("c", "specific heat capacity", "J/(kg K)"), req("ΔT", "temperature change", "K")},
			func(v Values) (Result, error) {
				return single("Q", v.Get("m")*v.Get("c")*v.Get("ΔT"), "J"), nil
			}),
		New("ideal-gas", p, "Ideal Gases", "Ideal Gas Law",
			"pV = nRT", "Pressure of an ideal gas",
			[]Input{req("n", "amount", "mol"), def("R", "gas constant", "J/(mol K)", gasConstant), req("T", "temperature", "K"), req("V", "volume", "m³")},
			func(v Values) (Result, error) {
				if v.Get("V") <= 0 || v.Get("T") < 0 {
					return Result{}, domainErr("V must be positive and T non-negative")
				}
				return single("p", v.Get("n")*v.Get("R")*v.Get("T")/v.Get("V"), "Pa"), nil
			}),
		New("first-law", p, "Thermodynamics", "First Law",
			"ΔU = Q - W", "Change in internal energy",
			[]Input{req("Q", "heat supplied", "J"), req("W", "work done by the gas", "J")},
			func(v Values) (Result, error) { return single("ΔU", v.Get("Q")-v.Get("W"), "J"), nil }),
		New("efficiency", p, "Heat Engines", "Efficiency",
			"η = W_out / Q_in", "Efficiency of a heat engine",
			[]Input{req("W_out", "useful work", "J"), req("Q_in", "heat input", "J")},
			func(v Values) (Result, error) {
				if v.Get("Q_in") <= 0 {
					return Result{}, domainErr("Q_in must be positive")
				}
				return single("η", v.Get("W_out")/v.Get("Q_in"), ""), nil
			}),
		New("entropy-change", p, "Entropy", "Change in Entropy",
			"ΔS = Q / T", "Change in entropy",
			[]Input{req("Q", "heat transferred", "J"), req("T", "temperature", "K")},
			func(v Values) (Result, error) {
				if v.Get("T") <= 0 {
					return Result{}, domainErr("T must be positive")
				}
				return single("ΔS", v.Get("Q")/v.Get("T"), "J/K"), nil
			}),
		New("photon-energy", p, "Quantum Physics", "Photon Energy",
			"E = hf", "Energy of a photon",
			[]Input{def("h", "Planck constant", "J s", planckConstant), req("f", "frequency", "Hz")},
			func(v Values) (Result, error) { return single("E", v.Get("h")*v.Get("f"), "J"), nil }),
		New("photoelectric", p, "Photoelectric Effect", "Photoelectric Equation",
			"hf = φ + KE_max", "Maximum kinetic energy of a photoelectron",
			[]Input{def("h", "Planck constant", "J s", planckConstant), req("f", "frequency", "Hz"), req("φ", "work function", "J")},
			func(v Values) (Result, error) {
				ke := v.Get("h")*v.Get("f") - v.Get("φ")
				res := single("KE_max", ke, "J")
				if ke < 0 {
					res.Note = "photon energy is below the work function; no emission"
				}
				return res, nil
			}),
		New("de-broglie", p, "Wave-Particle Duality", "de Broglie Wavelength",
			"λ = h / p", "Wavelength of a particle",
			[]Input{def("h", "Planck constant", "J s", planckConstant), req("p", "momentum", "kg m/s")},
			func(v Values) (Result, error) {
				if v.Get("p") == 0 {
					return Result{}, domainErr("p cannot be zero")
				}
				return single("λ", v.Get("h")/v.Get("p"), "m"), nil
			}),
		New("radioactive-decay", p, "Nuclear Physics", "Radioactive Decay",
			"N = N0 e^{-λt}", "Number of nuclei remaining after time t",
			[]Input{req("N0", "initial nuclei", ""), req("λ", "decay constant", "1/s"), req("t", "time", "s")},
			func(v Values) (Result, error) {
				return single("N", v.Get("N0")*math.Exp(-v.Get("λ")*v.Get("t")), ""), nil
			}),
		New("half-life", p, "Radioactivity", "Half-life",
			"N = N0 * (1/2)^{t/T_{1/2}}", "Radioactive decay by half-life",
			[]Input{req("N0", "initial nuclei", ""), req("t", "time", "s"), req("T_{1/2}", "half-life", "s")},
			func(v Values) (Result, error) {
				th := v.Get("T_{1/2}")
				if th <= 0 {
					return Result{}, domainErr("half-life must be positive")
				}
				return Result{Values: []Quantity{
					{Symbol: "N", Value: v.Get("N0") * math.Pow(0.5, v.Get("t")/th)},
					{Symbol: "λ", Value: math.Ln2 / th, Unit: "1/s"},
				}}, nil
			}),
		New("mass-energy", p, "Particle Physics", "Energy-Mass Equivalence",
			"E = mc^2", "Mass-energy equivalence",
			[]Input{req("m", "mass", "kg"), def("c", "speed of light", "m/s", speedOfLight)},
			func(v Values) (Result, error) {
				c := v.Get("c")
				return single("E", v.Get("m")*c*c, "J"), nil
			}),
	}
}

func snell(v Values) (Result, error) {
	names := []string{"n1", "θ1", "n2", "θ2"}
	var missing string
	count := 0
	for _, n := range names {
		if !v.Has(n) {
			missing, count = n, count+1
		}
	}
	if count != 1 {
		return Result{}, domainErr("provide all but one of n1, θ1, n2, θ2")
	}
	n1, t1, n2, t2 := v.Get("n1"), v.Get("θ1"), v.Get("n2"), v.Get("θ2")
	angle := func(symbol string, s float64) (Result, error) {
		if s < -1 || s > 1 {
			return Result{}, domainErr("total internal reflection: sin%s = %s", symbol[len("θ"):], strconv.FormatFloat(s, 'g', 4, 64))
		}
		return single(symbol, asinDeg(s), "°"), nil
	}
	switch missing {
	case "θ2":
		if n2 == 0 {
			return Result{}, domainErr("n2 cannot be zero")
		}
		return angle("θ2", n1*sinDeg(t1)/n2)
	case "θ1":
		if n1 == 0 {
			return Result{}, domainErr("n1 cannot be zero")
		}
		return angle("θ1", n2*sinDeg(t2)/n1)
	case "n2":
		if sinDeg(t2) == 0 {
			return Result{}, domainErr("θ2 must not be zero")
		}
		return single("n2", n1*sinDeg(t1)/sinDeg(t2), ""), nil
	}
	if sinDeg(t1) == 0 {
		return Result{}, domainErr("θ1 must not be zero")
	}
	return single("n1", n2*sinDeg(t2)/sinDeg(t1), ""), nil
}
