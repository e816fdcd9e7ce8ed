// Package sample holds literal IL programs used to exercise the
// assembler and interpreter end to end. Each constant is parseable by
// ilasm.Parse and runnable by interp.Machine against the input
// sequence named in its doc comment.
package sample

// Division is division by repeated doubling: given N and M on the
// input, it writes the quotient then the remainder. Doubling M while
// the doubled value still fits in the remaining dividend, subtracting
// that multiple, and starting again from M is the same long-division
// shape the teacher's own
// interpreter exercises with small bignum arithmetic.
const Division = `@entry:
    read %n
    read %m
    %q = 0
    %r = %n
    goto @outer_cond
@outer_cond:
    %r1 = phi[%r, @entry], [%r2, @inner_after]
    %q1 = phi[%q, @entry], [%q2, @inner_after]
    %ge = %r1 >= %m
    branch %ge ? @outer_body : @done
@outer_body:
    %d0 = %m
    %mul0 = 1
    goto @inner_cond
@inner_cond:
    %d = phi[%d0, @outer_body], [%dnext, @inner_body]
    %mul = phi[%mul0, @outer_body], [%mulnext, @inner_body]
    %d2 = %d + %d
    %fits = %d2 <= %r1
    branch %fits ? @inner_body : @inner_after
@inner_body:
    %dnext = %d2
    %mulnext = %mul + %mul
    goto @inner_cond
@inner_after:
    %r2 = %r1 - %d
    %q2 = %q1 + %mul
    goto @outer_cond
@done:
    write %q1
    write %r1
    exit
`

// ModExp computes a^b mod m by square-and-multiply, reading a, b, m
// in that order and writing the single result.
const ModExp = `@entry:
    read %a
    read %b
    read %m
    %result = 1
    %base = %a % %m
    %exp = %b
    goto @cond
@cond:
    %result1 = phi[%result, @entry], [%result3, @bump]
    %base1 = phi[%base, @entry], [%base2, @bump]
    %exp1 = phi[%exp, @entry], [%exp2, @bump]
    %gt = %exp1 > 0
    branch %gt ? @body : @done
@body:
    %bit = %exp1 % 2
    %isodd = %bit != 0
    branch %isodd ? @odd : @skip
@odd:
    %rm = %result1 * %base1
    %result2 = %rm % %m
    goto @bump
@skip:
    goto @bump
@bump:
    %result3 = phi[%result2, @odd], [%result1, @skip]
    %bsq = %base1 * %base1
    %base2 = %bsq % %m
    %exp2 = %exp1 / 2
    goto @cond
@done:
    write %result1
    exit
`

// SumOfSquares searches for the smallest positive a such that N =
// a^2 + b^2 for some positive b, reading N and writing a then b. If
// no such decomposition exists it writes -1.
const SumOfSquares = `@entry:
    read %n
    %a = 1
    goto @outer_cond
@outer_cond:
    %a1 = phi[%a, @entry], [%a2, @outer_next]
    %asq = %a1 * %a1
    %cond1 = %asq < %n
    branch %cond1 ? @outer_body : @not_found
@outer_body:
    %target = %n - %asq
    %b = 1
    %bsq = 1
    goto @inner_cond
@inner_cond:
    %b1 = phi[%b, @outer_body], [%b2, @inner_body]
    %bsq1 = phi[%bsq, @outer_body], [%bsq2, @inner_body]
    %cond2 = %bsq1 < %target
    branch %cond2 ? @inner_body : @inner_done
@inner_body:
    %b2 = %b1 + 1
    %bsq2 = %b2 * %b2
    goto @inner_cond
@inner_done:
    %eq = %bsq1 == %target
    branch %eq ? @found : @outer_next
@outer_next:
    %a2 = %a1 + 1
    goto @outer_cond
@found:
    write %a1
    write %b1
    exit
@not_found:
    write -1
    exit
`

// FizzBuzz is the "surrogate" variant from the test scenarios: it
// writes a sentinel instead of the loop index, so a reader can tell
// the four cases apart without string output. Fizz triggers on even
// i, Buzz on multiples of five, FizzBuzz on both, and plain i writes
// the constant 1.
const FizzBuzz = `@entry:
    read %n
    %i = 1
    goto @loop_cond
@loop_cond:
    %i1 = phi[%i, @entry], [%i2, @bump]
    %cond = %i1 <= %n
    branch %cond ? @body : @exit_block
@body:
    %m2 = %i1 % 2
    %zero2 = %m2 == 0
    branch %zero2 ? @check5a : @check5b
@check5a:
    %m5a = %i1 % 5
    %zero5a = %m5a == 0
    branch %zero5a ? @out_fizzbuzz : @out_fizz
@check5b:
    %m5b = %i1 % 5
    %zero5b = %m5b == 0
    branch %zero5b ? @out_buzz : @out_normal
@out_fizzbuzz:
    write 51228422
    goto @bump
@out_fizz:
    write 5122
    goto @bump
@out_buzz:
    write 8422
    goto @bump
@out_normal:
    write 1
    goto @bump
@bump:
    %i2 = %i1 + 1
    goto @loop_cond
@exit_block:
    exit
`

// BinarySearch guesses a hidden value in [0, 1024) by bisection,
// writing each guess and reading back -1 (too high), 0 (found), or 1
// (too low). On a match it writes the sentinel 88 instead of another
// guess.
const BinarySearch = `@entry:
    %lo = 0
    %hi = 1024
    goto @loop_cond
@loop_cond:
    %lo1 = phi[%lo, @entry], [%lo3, @merge]
    %hi1 = phi[%hi, @entry], [%hi3, @merge]
    %sum = %lo1 + %hi1
    %mid = %sum / 2
    write %mid
    read %resp
    %eq = %resp == 0
    branch %eq ? @found : @check_lt
@check_lt:
    %lt = %resp < 0
    branch %lt ? @set_hi : @set_lo
@set_hi:
    %hi2 = %mid
    %lo2 = %lo1
    goto @merge
@set_lo:
    %lo2 = %mid + 1
    %hi2 = %hi1
    goto @merge
@merge:
    %lo3 = phi[%lo2, @set_hi], [%lo2, @set_lo]
    %hi3 = phi[%hi2, @set_hi], [%hi2, @set_lo]
    goto @loop_cond
@found:
    write 88
    exit
`

// PhiFromEntry is structurally valid — entry's only predecessor is
// loop, reached by its own back edge — but interpretation always
// begins at the entry block with no predecessor having actually run,
// so its phi can never resolve and must fail with UnboundPhi.
const PhiFromEntry = `@entry:
    %x = phi[1, @loop]
    write %x
    goto @loop
@loop:
    goto @entry
`
